package auth

import (
	"github.com/food-menu-pos/api/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	username string
	hash     []byte
	role     string
}

// Checker verifies the two fixed POS accounts. Passwords are held only as
// bcrypt hashes.
type Checker struct {
	accounts []account
}

// NewChecker hashes the built-in admin/admin and store/store accounts.
func NewChecker() (*Checker, error) {
	return newChecker(bcrypt.DefaultCost, map[string][2]string{
		"admin": {"admin", enum.RoleAdmin},
		"store": {"store", enum.RoleStore},
	})
}

func newChecker(cost int, pairs map[string][2]string) (*Checker, error) {
	c := &Checker{}
	for username, v := range pairs {
		hash, err := bcrypt.GenerateFromPassword([]byte(v[0]), cost)
		if err != nil {
			return nil, err
		}
		c.accounts = append(c.accounts, account{username: username, hash: hash, role: v[1]})
	}
	return c, nil
}

// Check returns enum.RoleAdmin, enum.RoleStore or enum.RoleRejected.
func (c *Checker) Check(username, password string) string {
	for _, a := range c.accounts {
		if a.username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil {
			return a.role
		}
		return enum.RoleRejected
	}
	return enum.RoleRejected
}
