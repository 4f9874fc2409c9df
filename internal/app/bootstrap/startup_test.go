package bootstrap

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		BackendBaseURL:    "http://localhost:8000",
		SessionKey:        "test-session-key-0123456789abcdefghij",
		SearchQuietPeriod: 350 * time.Millisecond,
		DialogTTL:         time.Minute,
		MongoDatabase:     "skillmatch",
		AuditLogAuth:      "all",
		AuditLogAdmin:     "log",
		LoginRateLimit:    10,
		LoginRateWindow:   time.Minute,
	}
}

func TestValidateConfig_AcceptsDefaults(t *testing.T) {
	if err := ValidateConfig(nil, validConfig(), testLogger()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"relative backend", func(c *AppConfig) { c.BackendBaseURL = "/api" }, "backend_base_url"},
		{"empty backend", func(c *AppConfig) { c.BackendBaseURL = "" }, "backend_base_url"},
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "postgres://nope" }, "MongoDB URI"},
		{"mongo without database", func(c *AppConfig) {
			c.MongoURI = "mongodb://localhost:27017"
			c.MongoDatabase = ""
		}, "mongo_database"},
		{"unknown audit mode", func(c *AppConfig) { c.AuditLogAuth = "sometimes" }, "audit_log_auth"},
		{"zero quiet period", func(c *AppConfig) { c.SearchQuietPeriod = 0 }, "search_quiet_period"},
		{"negative retention", func(c *AppConfig) { c.AuditRetention = -time.Hour }, "audit_retention"},
		{"negative timeout", func(c *AppConfig) { c.TimeoutMedium = -time.Second }, "timeouts"},
		{"zero rate limit", func(c *AppConfig) { c.LoginRateLimit = 0 }, "login_rate_limit"},
		{"short csrf key", func(c *AppConfig) { c.CSRFKey = "short" }, "csrf_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(nil, cfg, testLogger())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestConfigureTimeouts_AppliesConfiguredValues(t *testing.T) {
	t.Cleanup(timeouts.Reset)
	cfg := validConfig()
	cfg.TimeoutShort = 3 * time.Second
	cfg.TimeoutLong = time.Minute

	configureTimeouts(cfg)

	got := timeouts.Current()
	if got.Short != 3*time.Second || got.Long != time.Minute {
		t.Errorf("configured: %+v", got)
	}
	if got.Ping != timeouts.DefaultPing || got.Medium != timeouts.DefaultMedium {
		t.Errorf("unset values should keep defaults: %+v", got)
	}
}

func TestCSRFKey_DerivedIs32Bytes(t *testing.T) {
	cfg := validConfig()
	if got := len(csrfKey(cfg)); got != 32 {
		t.Errorf("derived key length = %d, want 32", got)
	}
	cfg.CSRFKey = "0123456789abcdef0123456789abcdef"
	if string(csrfKey(cfg)) != cfg.CSRFKey {
		t.Error("configured key should be used as is")
	}
}

func TestConnectDB_WithoutMongo(t *testing.T) {
	deps, err := ConnectDB(context.Background(), nil, validConfig(), testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.Backend == nil {
		t.Error("expected a backend client")
	}
	if deps.MongoClient != nil || deps.MongoDatabase != nil {
		t.Error("expected no Mongo handles without mongo_uri")
	}
	if err := EnsureSchema(context.Background(), nil, validConfig(), deps, testLogger()); err != nil {
		t.Errorf("EnsureSchema without a database: %v", err)
	}
	if err := Shutdown(context.Background(), nil, validConfig(), deps, testLogger()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestEnsureSchema_CreatesAuditIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureSchema(ctx, nil, validConfig(), DBDeps{MongoDatabase: db}, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
}

func TestShutdown_RunsStoppersInReverse(t *testing.T) {
	var order []int
	onShutdown(func() { order = append(order, 1) })
	onShutdown(func() { order = append(order, 2) })

	if err := Shutdown(context.Background(), nil, validConfig(), DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("stop order = %v, want [2 1]", order)
	}

	// A second shutdown has nothing left to stop.
	order = nil
	_ = Shutdown(context.Background(), nil, validConfig(), DBDeps{}, testLogger())
	if len(order) != 0 {
		t.Errorf("stoppers ran twice: %v", order)
	}
}
