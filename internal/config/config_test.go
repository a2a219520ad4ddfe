package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// App
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("SESSION_SECRET", "s3cret")

	// Edge rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 25.0
	t.Setenv("RATE_BURST", "nope") // -> default 50

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Billing
	t.Setenv("RAZORPAY_KEY_ID", "rzp_id")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp_secret")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "rzp_whsec")
	t.Setenv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com")
	t.Setenv("PAYPAL_CLIENT_ID", "pp_id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "pp_secret")
	t.Setenv("PAYPAL_WEBHOOK_ID", "wh-1")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// App
	if cfg.DBPath != "db.sqlite" || cfg.SessionSecret != "s3cret" {
		t.Fatalf("app fields unexpected: %+v", cfg)
	}

	// Edge rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 25.0 || cfg.RateBurst != 50 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// Billing
	if cfg.Razorpay.KeyID != "rzp_id" || cfg.Razorpay.WebhookSecret != "rzp_whsec" ||
		cfg.Razorpay.BaseURL != "https://api.razorpay.com" {
		t.Fatalf("razorpay unexpected: %+v", cfg.Razorpay)
	}
	if cfg.PayPal.ClientID != "pp_id" || cfg.PayPal.WebhookID != "wh-1" ||
		cfg.PayPal.BaseURL != "https://api-m.sandbox.paypal.com" {
		t.Fatalf("paypal unexpected: %+v", cfg.PayPal)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	valid := func(t *testing.T) {
		t.Helper()
		t.Setenv("SESSION_SECRET", "s3cret")
	}

	t.Run("invalid LOG_LEVEL", func(t *testing.T) {
		valid(t)
		t.Setenv("LOG_LEVEL", "verbose")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "LOG_LEVEL") {
			t.Fatalf("expected LOG_LEVEL error, got %v", err)
		}
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		valid(t)
		t.Setenv("READ_TIMEOUT", "-1s")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "timeouts") {
			t.Fatalf("expected timeout error, got %v", err)
		}
	})

	t.Run("bad MAX_HEADER_BYTES", func(t *testing.T) {
		valid(t)
		t.Setenv("MAX_HEADER_BYTES", "-5")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "MAX_HEADER_BYTES") {
			t.Fatalf("expected MAX_HEADER_BYTES error, got %v", err)
		}
	})

	t.Run("empty SESSION_SECRET", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
			t.Fatalf("expected SESSION_SECRET error, got %v", err)
		}
	})

	t.Run("negative RATE_RPS", func(t *testing.T) {
		valid(t)
		t.Setenv("RATE_RPS", "-0.1")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "RATE_RPS") {
			t.Fatalf("expected RATE_RPS error, got %v", err)
		}
	})

	t.Run("zero RATE_BURST", func(t *testing.T) {
		valid(t)
		t.Setenv("RATE_BURST", "0")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "RATE_BURST") {
			t.Fatalf("expected RATE_BURST error, got %v", err)
		}
	})

	t.Run("sampler out of range", func(t *testing.T) {
		valid(t)
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.5")
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "OTEL_TRACES_SAMPLER_ARG") {
			t.Fatalf("expected sampler error, got %v", err)
		}
	})
}

// --- helpers ---

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"api":      "/api",
		"/api/v1/": "/api/v1",
		" /x ":     "/x",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
