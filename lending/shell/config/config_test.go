package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/shell/config"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

func Test_Load_MissingFileYieldsDefaults(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "absent.yml")

	// act
	cfg, err := config.Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Dialect)
	assert.Equal(t, config.AdapterPGX, cfg.Database.Adapter)
	assert.Equal(t, "users", cfg.Database.Tables.Borrowers)
	assert.Equal(t, "issuedbooks", cfg.Database.Tables.Loans)
	assert.Equal(t, 10*time.Second, cfg.OperationTimeout)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Observability.Enabled)
	assert.NoError(t, cfg.Validate())
}

func Test_Load_EnvironmentOverridesFile(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  dialect: mysql\n  adapter: sql\noperation_timeout: 3s\n"), 0o600))
	t.Setenv("LIBRARIAN_DATABASE_DIALECT", "sqlite3")
	t.Setenv("LIBRARIAN_RETRY_MAX_ATTEMPTS", "6")

	// act
	cfg, err := config.Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Database.Dialect)
	assert.Equal(t, config.AdapterSQL, cfg.Database.Adapter)
	assert.Equal(t, 3*time.Second, cfg.OperationTimeout)
	assert.Equal(t, 6, cfg.Retry.MaxAttempts)
}

func Test_Load_ConfigPathFromEnvironment(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "other.yml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	t.Setenv("LIBRARIAN_CONFIG", path)

	// act
	cfg, err := config.Load("")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func Test_Load_RejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0o600))

	_, err := config.Load(path)

	assert.Error(t, err)
}

func Test_Save_WritesAFileThatLoadsBack(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	cfg := config.Default()
	cfg.Database.Dialect = "sqlite3"
	cfg.Database.Adapter = config.AdapterSQLX
	cfg.Database.DSN = "file:/tmp/library.db"
	cfg.OperationTimeout = 42 * time.Second

	// act
	require.NoError(t, config.Save(cfg, path))
	loaded, err := config.Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, cfg.Database, loaded.Database)
	assert.Equal(t, 42*time.Second, loaded.OperationTimeout)
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(cfg *config.Config)
		expected error
	}{
		{
			name:     "pgx with mysql",
			mutate:   func(cfg *config.Config) { cfg.Database.Dialect = "mysql" },
			expected: config.ErrPGXNeedsPostgres,
		},
		{
			name:     "unknown adapter",
			mutate:   func(cfg *config.Config) { cfg.Database.Adapter = "odbc" },
			expected: config.ErrUnknownAdapter,
		},
		{
			name:     "unknown dialect",
			mutate:   func(cfg *config.Config) { cfg.Database.Dialect = "oracle" },
			expected: relstore.ErrUnsupportedDialect,
		},
		{
			name:     "empty dsn",
			mutate:   func(cfg *config.Config) { cfg.Database.DSN = " " },
			expected: config.ErrEmptyDSN,
		},
		{
			name:     "zero timeout",
			mutate:   func(cfg *config.Config) { cfg.OperationTimeout = 0 },
			expected: config.ErrNonPositiveTimeout,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)

			assert.ErrorIs(t, cfg.Validate(), tc.expected)
		})
	}
}

func Test_ExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "lib.db"), config.ExpandHome("~/lib.db"))
	assert.Equal(t, "/var/lib.db", config.ExpandHome("/var/lib.db"))
}
