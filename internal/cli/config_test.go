package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Duration != 7*24*time.Hour {
		t.Errorf("ttl = %v, want 168h", cfg.Cache.TTL.Duration)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.API.MaxReferences != 0 {
		t.Errorf("max references = %d, want 0 (unlimited)", cfg.API.MaxReferences)
	}
}

func TestLoadConfigParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://api.example.org"
mailto = "someone@example.org"
max_references = 25

[cache]
backend = "redis"
ttl = "30m"

[cache.redis]
addr = "redis.internal:6379"
db = 2

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.org" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Mailto != "someone@example.org" {
		t.Errorf("mailto = %q", cfg.API.Mailto)
	}
	if cfg.API.MaxReferences != 25 {
		t.Errorf("max references = %d, want 25", cfg.API.MaxReferences)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Duration != 30*time.Minute {
		t.Errorf("ttl = %v, want 30m", cfg.Cache.TTL.Duration)
	}
	if cfg.Cache.Redis.Addr != "redis.internal:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nmailto = \"a@b.org\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Mailto != "a@b.org" {
		t.Errorf("mailto = %q", cfg.API.Mailto)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("backend = %q, want default file", cfg.Cache.Backend)
	}
	if cfg.Cache.Mongo.Database != "citegraph" {
		t.Errorf("mongo database = %q, want default citegraph", cfg.Cache.Mongo.Database)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nttl = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		title  string
		format string
		want   string
	}{
		{"Attention Is All You Need", "svg", "attention-is-all-you-need.svg"},
		{"BERT: Pre-training of Deep Bidirectional Transformers", "dot", "bert-pre-training-of-deep-bidirectional-transformers.dot"},
		{"???", "json", "citations.json"},
		{"  spaced  out  ", "svg", "spaced--out.svg"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.title, tt.format); got != tt.want {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.title, tt.format, got, tt.want)
		}
	}
}
