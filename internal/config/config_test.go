package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvWithDefault(t *testing.T) {
	testCases := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "should return env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "from_env",
			expected:     "from_env",
		},
		{
			name:         "should return default when env not set",
			key:          "MISSING_KEY",
			defaultValue: "default_value",
			envValue:     "",
			expected:     "default_value",
		},
		{
			name:         "should return empty string default",
			key:          "EMPTY_KEY",
			defaultValue: "",
			envValue:     "",
			expected:     "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			result := GetEnvWithDefault(tt.key, tt.defaultValue)

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvAsType(t *testing.T) {
	t.Setenv("BOOL_KEY", "true")
	t.Setenv("INT_KEY", "42")
	t.Setenv("BAD_INT_KEY", "forty-two")

	assert.True(t, GetEnvAsType("BOOL_KEY", false))
	assert.Equal(t, 42, GetEnvAsType("INT_KEY", 0))
	assert.Equal(t, 7, GetEnvAsType("BAD_INT_KEY", 7))
	assert.Equal(t, "fallback", GetEnvAsType("UNSET_STRING_KEY", "fallback"))
}

var configVars = []string{
	"APP_PORT", "APP_HOST", "APP_ENV", "LOG_LEVEL", "JWT_SECRET", "DB_DRIVER", "DB_PATH",
	"ADMIN_EMAILS", "IMAGE_API_KEY", "S3_BUCKET", "S3_ENDPOINT", "S3_USE_PATH_STYLE",
}

func cleanupTestEnv() {
	for _, v := range configVars {
		os.Unsetenv(v)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("successful config load with all env vars", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("APP_PORT", "9000")
		os.Setenv("APP_HOST", "0.0.0.0")
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("JWT_SECRET", "super_secret_jwt_key")
		os.Setenv("ADMIN_EMAILS", " Root@Example.com,,ops@example.com ")
		os.Setenv("IMAGE_API_KEY", "key")
		os.Setenv("S3_BUCKET", "seed-images")
		os.Setenv("S3_ENDPOINT", "http://localhost:9000")
		os.Setenv("S3_USE_PATH_STYLE", "true")

		config, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 9000, config.Port)
		assert.Equal(t, "0.0.0.0", config.Host)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, []string{"root@example.com", "ops@example.com"}, config.AdminEmails)
		assert.True(t, config.Image.Enabled())
		assert.True(t, config.Image.S3UsePathStyle)
	})

	t.Run("should fail with invalid port", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("APP_PORT", "not_a_number")

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("should fail with unsupported driver", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("DB_DRIVER", "oracle")

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("should use defaults when optional env vars not set", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()

		config, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 8080, config.Port)
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "info", config.LogLevel)
		assert.Equal(t, "sqlite", config.DBDriver)
		assert.Empty(t, config.AdminEmails)
		assert.False(t, config.Image.Enabled())
	})

	t.Run("should fail in production without jwt secret", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("APP_ENV", "production")

		config, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
		assert.Nil(t, config)
	})

	t.Run("production with jwt secret loads", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("APP_ENV", "production")
		os.Setenv("JWT_SECRET", "prod-secret")

		config, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "production", config.Environment)
		assert.Equal(t, "prod-secret", config.JWTSecret)
	})

	t.Run("string masks secrets", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("JWT_SECRET", "do-not-print")

		config, err := LoadConfig()
		require.NoError(t, err)

		assert.NotContains(t, config.String(), "do-not-print")
	})
}

func BenchmarkGetEnvWithDefault(b *testing.B) {
	os.Setenv("BENCH_KEY", "test_value")
	defer os.Unsetenv("BENCH_KEY")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetEnvWithDefault("BENCH_KEY", "default")
	}
}
