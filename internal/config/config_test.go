package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected default http addr: %q", cfg.HTTPAddr)
	}
	if cfg.LockRunInterval != time.Minute || cfg.NotifyRunInterval != time.Minute {
		t.Fatalf("unexpected default intervals: lock=%s notify=%s", cfg.LockRunInterval, cfg.NotifyRunInterval)
	}
	if cfg.NotifyUrgencyWindow != 30*time.Minute {
		t.Fatalf("unexpected default urgency window: %s", cfg.NotifyUrgencyWindow)
	}
	if cfg.DigestWindowStart != "09:00" || cfg.DigestWindowWidth != time.Minute {
		t.Fatalf("unexpected digest window defaults: %s/%s", cfg.DigestWindowStart, cfg.DigestWindowWidth)
	}
	if cfg.PushEnabled {
		t.Fatalf("expected push disabled by default")
	}
}

func TestLoad_LockConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("LOCK_RUN_INTERVAL", "30s")
		t.Setenv("LOCK_MAX_WORKERS", "16")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LockRunInterval != 30*time.Second {
			t.Fatalf("unexpected lock interval: %s", cfg.LockRunInterval)
		}
		if cfg.LockMaxWorkers != 16 {
			t.Fatalf("unexpected lock workers: %d", cfg.LockMaxWorkers)
		}
	})

	t.Run("rejects zero workers", func(t *testing.T) {
		t.Setenv("LOCK_MAX_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for LOCK_MAX_WORKERS=0")
		}
	})

	t.Run("rejects bad interval", func(t *testing.T) {
		t.Setenv("LOCK_RUN_INTERVAL", "soon")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid LOCK_RUN_INTERVAL")
		}
	})
}

func TestLoad_DigestWindowValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("valid wall clock", func(t *testing.T) {
		t.Setenv("NOTIFY_DIGEST_WINDOW_START", "07:30")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DigestWindowStart != "07:30" {
			t.Fatalf("unexpected digest start: %q", cfg.DigestWindowStart)
		}
	})

	t.Run("rejects invalid wall clock", func(t *testing.T) {
		t.Setenv("NOTIFY_DIGEST_WINDOW_START", "25:99")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid NOTIFY_DIGEST_WINDOW_START")
		}
	})
}

func TestLoad_PushConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("enabled requires base url", func(t *testing.T) {
		t.Setenv("PUSH_ENABLED", "true")
		t.Setenv("PUSH_BASE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when PUSH_ENABLED=true without PUSH_BASE_URL")
		}
	})

	t.Run("enabled with values", func(t *testing.T) {
		t.Setenv("PUSH_ENABLED", "true")
		t.Setenv("PUSH_BASE_URL", "https://push.example.com")
		t.Setenv("PUSH_API_KEY", "key-123")
		t.Setenv("PUSH_RETRIES", "3")
		t.Setenv("PUSH_CIRCUIT_FAILURE_COUNT", "7")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.PushEnabled || cfg.PushBaseURL != "https://push.example.com" {
			t.Fatalf("unexpected push config: %+v", cfg)
		}
		if cfg.PushAPIKey != "key-123" {
			t.Fatalf("unexpected push api key")
		}
		if cfg.PushRetries != 3 {
			t.Fatalf("unexpected push retries: %d", cfg.PushRetries)
		}
		if cfg.PushCircuitFailureCount != 7 {
			t.Fatalf("unexpected circuit failure count: %d", cfg.PushCircuitFailureCount)
		}
	})

	t.Run("rejects negative retries", func(t *testing.T) {
		t.Setenv("PUSH_RETRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for PUSH_RETRIES=-1")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "fantasy-cricket-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "fantasy-cricket-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}
