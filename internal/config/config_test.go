package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:          "8080",
		SQLiteDBPath:  "./data/test.db",
		JWTSecret:     "0123456789abcdef",
		TokenDuration: time.Hour,
		GeminiModel:   "gemini-2.5-flash",
		GeminiBaseURL: "https://generativelanguage.googleapis.com/v1beta",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "non-numeric port",
			mutate:  func(c *Config) { c.Port = "http" },
			wantErr: "invalid port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantErr: "invalid port",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET must be set",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "short" },
			wantErr: "at least 16 characters",
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.SQLiteDBPath = "" },
			wantErr: "database path",
		},
		{
			name:    "negative token duration",
			mutate:  func(c *Config) { c.TokenDuration = -time.Minute },
			wantErr: "must be positive",
		},
		{
			name:   "missing gemini key is allowed",
			mutate: func(c *Config) { c.GeminiAPIKey = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %v, want 24h", cfg.TokenDuration)
	}
}
