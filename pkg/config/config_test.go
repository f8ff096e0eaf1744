package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("InitConfig = %+v, expected defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(reloaded, DefaultConfig()) {
		t.Errorf("saved defaults did not round trip: %+v", reloaded)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[engine]
word_limit = 8
match_case = true

[store]
backend = "sqlite"
save_debounce_ms = 250
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.WordLimit != 8 || !cfg.Engine.MatchCase {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.SentenceLimit != DefaultConfig().Engine.SentenceLimit {
		t.Errorf("unset value should keep its default, got %d", cfg.Engine.SentenceLimit)
	}
	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}

	opts := cfg.EngineOptions()
	if opts.WordLimit != 8 || !opts.MatchCase || opts.SaveDebounce != 250*time.Millisecond {
		t.Errorf("EngineOptions = %+v", opts)
	}
}

func TestPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// word_limit has the wrong type, so strict decoding fails
	data := `
[engine]
word_limit = "many"
sentence_limit = 2

[dict]
synonyms = "/tmp/syn.yaml"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.WordLimit != DefaultConfig().Engine.WordLimit {
		t.Errorf("bad value should fall back to default, got %d", cfg.Engine.WordLimit)
	}
	if cfg.Engine.SentenceLimit != 2 {
		t.Errorf("sentence_limit = %d, expected 2", cfg.Engine.SentenceLimit)
	}
	if cfg.Dict.Synonyms != "/tmp/syn.yaml" {
		t.Errorf("synonyms = %q", cfg.Dict.Synonyms)
	}
}

func TestUnparseableConfigUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[engine\nword_limit = "), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestStoreDir(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.StoreDir("/etc/wordassist/config.toml"); got != filepath.Join("/etc/wordassist", "data") {
		t.Errorf("StoreDir = %q", got)
	}
	cfg.Store.Dir = "/var/lib/wa"
	if got := cfg.StoreDir("/etc/wordassist/config.toml"); got != "/var/lib/wa" {
		t.Errorf("StoreDir override = %q", got)
	}
}
