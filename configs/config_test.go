package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	conf, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "bakery-service", conf.App.Name)
	assert.Equal(t, 20, conf.Storefront.PageSize)
	assert.Equal(t, 30*time.Minute, conf.Storefront.SessionIdle)
	assert.Empty(t, conf.Sources)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "app:\n  name: from-yaml\nserver:\n  port: \"9000\"\nstorefront:\n  page_size: 50\n")
	writeFile(t, dir, ".env", "POSTGRES_DB=from_dotenv\nAPP_VERSION=2.0.0\n")
	writeFile(t, dir, ".local.env", "APP_VERSION=2.1.0\n")
	t.Cleanup(func() {
		os.Unsetenv("POSTGRES_DB")
		os.Unsetenv("APP_VERSION")
	})
	t.Setenv("APP_PORT", "9100")

	conf, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-yaml", conf.App.Name)
	assert.Equal(t, 50, conf.Storefront.PageSize)
	assert.Equal(t, "from_dotenv", conf.Postgres.Database)
	assert.Equal(t, "2.1.0", conf.App.Version)
	assert.Equal(t, "9100", conf.Server.AppPort, "process environment wins over files")
	assert.Len(t, conf.Sources, 3)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "app: [unterminated")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "bakery", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=bakery sslmode=disable", p.DSN())

	p.URL = "postgres://u:p@db/bakery"
	assert.Equal(t, "postgres://u:p@db/bakery", p.DSN())
}

func TestGetOrDefault(t *testing.T) {
	conf := NewConfig()
	t.Setenv("BAKERY_TEST_KEY", "value")

	assert.Equal(t, "value", conf.Get("BAKERY_TEST_KEY"))
	assert.Equal(t, "fallback", conf.GetOrDefault("BAKERY_TEST_MISSING", "fallback"))
}
