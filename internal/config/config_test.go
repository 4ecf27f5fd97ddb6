package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Import.MaxFileSizeMB)
	assert.Equal(t, int64(20<<20), cfg.Import.MaxFileSize())
	assert.Equal(t, 30*time.Minute, cfg.Import.LockTTL)
	assert.Equal(t, "imports/", cfg.Import.UploadPrefix)
	assert.Equal(t, "admin@email.com", cfg.Seed.AdminEmail)
	assert.Equal(t, 60, cfg.JWT.AccessTokenExpiry)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMPORT_LOCK_TTL", "5m")
	t.Setenv("IMPORT_MAX_FILE_SIZE_MB", "2")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Import.LockTTL)
	assert.Equal(t, 2, cfg.Import.MaxFileSizeMB)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadFile_Overlay(t *testing.T) {
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_NAME", "env-db")

	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
host = "file-host"

[import]
lock_ttl = "90s"
max_file_size_mb = 5

[unknown]
key = 1
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "file-host", cfg.Database.Host)
	assert.Equal(t, "env-db", cfg.Database.Database)
	assert.Equal(t, 90*time.Second, cfg.Import.LockTTL)
	assert.Equal(t, 5, cfg.Import.MaxFileSizeMB)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[import]\nmax_file_size_mb = 0\n"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
