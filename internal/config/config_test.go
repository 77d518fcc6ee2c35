package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_ENV", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.Server.IsProduction())
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("DB_USER", "catalogo")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg := Load()

	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, "catalogo", cfg.Database.User)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "user",
		Password: "secret",
		Database: "catalogo",
		Schema:   "public",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://user:secret@db:5432/catalogo?search_path=public&sslmode=disable", cfg.DSN())
}

func TestDatabaseConfig_DSNEscapesCredentials(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "app:ro",
		Password: "p@ss/w:rd?#",
		Database: "catalogo",
		Schema:   "public",
		SSLMode:  "disable",
	}

	parsed, err := url.Parse(cfg.DSN())
	require.NoError(t, err)

	password, _ := parsed.User.Password()
	assert.Equal(t, "app:ro", parsed.User.Username())
	assert.Equal(t, "p@ss/w:rd?#", password)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "/catalogo", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
}
