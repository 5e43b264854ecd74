//go:build integration

package router_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/food-menu-pos/api/internal/kv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestIntegrationFlow runs the full API against settings stored in a real
// PostgreSQL database, then restarts the app on a new pool to check that
// tax and tip presets survive.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()
	connStr := setupPostgresContainer(t, ctx)

	first := openPostgresBackend(t, ctx, connStr)
	a := newApp(t, first)
	admin := a.login(t, "admin")
	store := a.login(t, "store")

	code, _ := a.call(t, "PUT", "/settings/tax", admin, map[string]string{"tax_percent": "6.5"})
	require.Equal(t, http.StatusOK, code)
	code, _ = a.call(t, "PUT", "/settings/tips", admin, map[string]interface{}{"presets": []int{15, 18, 25}})
	require.Equal(t, http.StatusOK, code)

	a.call(t, "POST", "/cart/items", store, map[string]string{"item_id": "3"})
	code, cart := a.call(t, "PUT", "/cart/tip", store, map[string]interface{}{"mode": "PRESET", "value": 18})
	require.Equal(t, http.StatusOK, code)
	breakdown := cart["breakdown"].(map[string]interface{})
	// 14.99 * (1 + 0.065 + 0.18) = 18.66255
	assert.Equal(t, "18.66255", breakdown["total_exact"])
	assert.Equal(t, "18.66", breakdown["total"])

	second := openPostgresBackend(t, ctx, connStr)
	restarted := newApp(t, second)
	token := restarted.login(t, "store")
	_, settings := restarted.call(t, "GET", "/settings", token, nil)
	assert.Equal(t, "6.5", settings["tax_percent"])
	assert.Equal(t, []interface{}{"15", "18", "25"}, settings["tip_presets"])
}

// --- Setup helpers ---

func setupPostgresContainer(t *testing.T, ctx context.Context) string {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}
	return connStr
}

func openPostgresBackend(t *testing.T, ctx context.Context, connStr string) *kv.PostgresStore {
	t.Helper()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	store := kv.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}
