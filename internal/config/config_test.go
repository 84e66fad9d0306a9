package config

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/hms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("expected postgres driver, got %s", cfg.StoreDriver)
	}
	if cfg.JWTTTLHours != 24 {
		t.Fatalf("expected 24h token ttl, got %d", cfg.JWTTTLHours)
	}
	if cfg.OTPTTLMinutes != 10 {
		t.Fatalf("expected 10m otp ttl, got %d", cfg.OTPTTLMinutes)
	}
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hms")

	for _, secret := range []string{"", "   "} {
		t.Setenv("JWT_SECRET", secret)
		if _, err := LoadConfig(); err == nil {
			t.Fatalf("expected error for JWT_SECRET=%q", secret)
		}
	}
}

func TestLoadConfig_MongoDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", " Mongo ")
	t.Setenv("MONGO_URI", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without MONGO_URI")
	}

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreDriverMongo {
		t.Fatalf("expected mongo driver, got %s", cfg.StoreDriver)
	}
	if cfg.MongoDatabase != "hms" {
		t.Fatalf("expected default mongo database hms, got %s", cfg.MongoDatabase)
	}
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "sqlite")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
