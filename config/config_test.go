package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "QUEUE_DRIVER", "ORPHAN_REGISTRATION_POLICY", "STATUS_MISSING_REGISTRATION", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "redis", cfg.Queue.Driver)
	assert.Equal(t, "keep", cfg.Registration.OrphanPolicy)
	assert.Equal(t, "upcoming", cfg.Registration.MissingRegistration)
	assert.False(t, cfg.Cloudinary.Enabled())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("QUEUE_DRIVER", "memory")
	t.Setenv("QUEUE_BUFFER_SIZE", "32")
	t.Setenv("QUEUE_CLAIM_MIN_IDLE", "750ms")
	t.Setenv("ORPHAN_REGISTRATION_POLICY", "purge")
	t.Setenv("STATUS_MISSING_REGISTRATION", "epoch")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://club.example.edu, http://localhost:5173")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg := LoadConfig()

	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "memory", cfg.Queue.Driver)
	assert.Equal(t, 32, cfg.Queue.BufferSize)
	assert.Equal(t, 750*time.Millisecond, cfg.Queue.ClaimMinIdleTime)
	assert.Equal(t, "purge", cfg.Registration.OrphanPolicy)
	assert.Equal(t, "epoch", cfg.Registration.MissingRegistration)
	assert.Equal(t, []string{"https://club.example.edu", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Cloudinary.Enabled())
}

func TestGetEnvHelpers_InvalidFallback(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	t.Setenv("TEST_DURATION", "soon")
	t.Setenv("TEST_LIST", " , ")

	assert.Equal(t, 5, getEnvAsInt("TEST_INT", 5))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, []string{"a"}, getEnvAsList("TEST_LIST", []string{"a"}))
}

func TestGetAuthConfig_DevSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	assert.True(t, GetAuthConfig().UsesDevSecret())

	t.Setenv("AUTH_JWT_SECRET", "club-production-secret")
	assert.False(t, GetAuthConfig().UsesDevSecret())
}
