package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: abc\n")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "rewear-session", c.Session.Cookie)
	assert.Equal(t, "/login", c.Web.LoginPath)
	assert.Equal(t, "/dashboard", c.Web.HomePath)
	assert.Equal(t, 60, c.Redis.ItemTTLSec)
}

func TestLoadEnvOverride(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: abc\ndb:\n  driver: postgres\n")
	t.Setenv("APP_DB_DRIVER", "mysql")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "mysql", c.DB.Driver)
}

func TestLoadRequiresSecret(t *testing.T) {
	p := writeYAML(t, "app:\n  name: x\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestGinMode(t *testing.T) {
	assert.Equal(t, "release", App{Env: "prod"}.GinMode())
	assert.Equal(t, "debug", App{Env: "local"}.GinMode())
}
