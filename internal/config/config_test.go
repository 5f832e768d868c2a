package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/teste")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "segredo-de-teste-com-32-caracteres!")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8001 {
		t.Errorf("Port = %d, esperado 8001", cfg.Port)
	}
	if cfg.JWTAccessTTL != time.Hour {
		t.Errorf("JWTAccessTTL = %s, esperado 1h", cfg.JWTAccessTTL)
	}
	if cfg.JWTRefreshTTL != 7*24*time.Hour {
		t.Errorf("JWTRefreshTTL = %s, esperado 168h", cfg.JWTRefreshTTL)
	}
	if !cfg.RunMigrations {
		t.Error("RunMigrations deveria ser true por padrão")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "curto")

	if _, err := Load(); err == nil {
		t.Fatal("segredo curto deveria falhar")
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("DB_DSN vazio deveria falhar")
	}
}

func TestLoadInvalidPort(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "abc")

	if _, err := Load(); err == nil {
		t.Fatal("porta inválida deveria falhar")
	}
}

func TestLoadParsesOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOW_ORIGINS", "https://painel.example.org, *.example.org ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.AllowOrigins) != 2 {
		t.Fatalf("AllowOrigins = %v, esperado 2 entradas", cfg.AllowOrigins)
	}
}

func TestLoadCustomTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTAccessTTL != 30*time.Minute {
		t.Errorf("JWTAccessTTL = %s, esperado 30m", cfg.JWTAccessTTL)
	}
}
