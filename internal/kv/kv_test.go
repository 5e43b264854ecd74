package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "salesTax")
	require.NoError(t, err)
	assert.False(t, ok, "missing key reports ok=false")

	require.NoError(t, s.Set(ctx, "salesTax", "8.875"))
	v, ok, err := s.Get(ctx, "salesTax")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "8.875", v)

	require.NoError(t, s.Set(ctx, "salesTax", "7"))
	v, _, _ = s.Get(ctx, "salesTax")
	assert.Equal(t, "7", v)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore_RoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Set(context.Background(), "tipOptions", "[19,20,22]"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), "tipOptions")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[19,20,22]", v)
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok, _ := s.Get(context.Background(), "salesTax")
	assert.False(t, ok)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_WriteFailureKeepsPriorValue(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(dir, 0o755))
	s, err := NewFileStore(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "salesTax", "8.875"))

	require.NoError(t, os.RemoveAll(dir))
	err = s.Set(context.Background(), "salesTax", "9")
	require.Error(t, err)

	v, _, _ := s.Get(context.Background(), "salesTax")
	assert.Equal(t, "8.875", v)
}

// --- Postgres (mocked DBTX) ---

type mockRow struct {
	value string
	err   error
}

func (r mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

type mockDB struct {
	rows    map[string]string
	execs   []string
	execErr error
	rowErr  error
}

func newMockDB() *mockDB { return &mockDB{rows: make(map[string]string)} }

func (m *mockDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execs = append(m.execs, sql)
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	if sql == upsertSetting {
		m.rows[args[0].(string)] = args[1].(string)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if m.rowErr != nil {
		return mockRow{err: m.rowErr}
	}
	v, ok := m.rows[args[0].(string)]
	if !ok {
		return mockRow{err: pgx.ErrNoRows}
	}
	return mockRow{value: v}
}

func TestPostgresStore(t *testing.T) {
	db := newMockDB()
	s := NewPostgresStore(db)

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.Equal(t, createSettingsTable, db.execs[0])

	exerciseStore(t, s)
}

func TestPostgresStore_Errors(t *testing.T) {
	db := newMockDB()
	s := NewPostgresStore(db)
	boom := errors.New("connection reset")

	db.rowErr = boom
	_, _, err := s.Get(context.Background(), "salesTax")
	assert.ErrorIs(t, err, boom)

	db.execErr = boom
	assert.ErrorIs(t, s.Set(context.Background(), "salesTax", "1"), boom)
	assert.ErrorIs(t, s.EnsureSchema(context.Background()), boom)
}

// --- Redis (fake Cmdable) ---

// fakeRedis overrides only the commands RedisStore issues.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	err  error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.err != nil:
		cmd.SetErr(f.err)
	case !ok:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(v)
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.data[key] = value.(string)
	cmd.SetVal("OK")
	return cmd
}

func TestRedisStore(t *testing.T) {
	fake := &fakeRedis{data: make(map[string]string)}
	s := NewRedisStoreWithClient(fake, "")

	exerciseStore(t, s)
	assert.Equal(t, "7", fake.data["pos:settings:salesTax"], "keys are prefixed")
}

func TestRedisStore_Errors(t *testing.T) {
	boom := errors.New("redis down")
	s := NewRedisStoreWithClient(&fakeRedis{data: map[string]string{}, err: boom}, "test:")

	_, _, err := s.Get(context.Background(), "salesTax")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Set(context.Background(), "salesTax", "1"), boom)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := Open(ctx, BackendMemory, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	closeFn()

	s, closeFn, err = Open(ctx, BackendFile, Options{FilePath: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	closeFn()

	_, closeFn, err = Open(ctx, "etcd", Options{})
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.NotNil(t, closeFn)
}
