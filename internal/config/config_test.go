package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

import:
  source_table: "lexicon_rows"
  batch_size: 2500
  output_path: "/tmp/dict.bin"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("database.max_conn_lifetime = %v, want default 1h", cfg.Database.MaxConnLifetime)
	}

	if cfg.Import.SourceTable != "lexicon_rows" {
		t.Errorf("import.source_table = %q, want %q", cfg.Import.SourceTable, "lexicon_rows")
	}
	if cfg.Import.BatchSize != 2500 {
		t.Errorf("import.batch_size = %d, want 2500", cfg.Import.BatchSize)
	}
	if cfg.Import.OutputPath != "/tmp/dict.bin" {
		t.Errorf("import.output_path = %q", cfg.Import.OutputPath)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("IMPORT_BATCH_SIZE", "100")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Import.BatchSize != 100 {
		t.Errorf("import.batch_size = %d, want 100 (ENV override)", cfg.Import.BatchSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("IMPORT_OUTPUT_PATH", "/tmp/dict.bin")
	t.Setenv("CONFIG_PATH", "")

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Import.BatchSize != 5000 {
		t.Errorf("import.batch_size = %d, want 5000 (default)", cfg.Import.BatchSize)
	}
	if cfg.Import.SourceTable != "bilingual_lexicon" {
		t.Errorf("import.source_table = %q, want default", cfg.Import.SourceTable)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func validConfig() Config {
	return Config{
		Database: DatabaseConfig{
			DSN:      "postgres://u:p@localhost:5432/testdb",
			MaxConns: 10,
			MinConns: 2,
		},
		Import: ImportConfig{
			SourceTable: "bilingual_lexicon",
			BatchSize:   5000,
			OutputPath:  "/tmp/dict.bin",
		},
	}
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.DSN = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database DSN")
	}
}

func TestValidate_MaxConnsBelowMinConns(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MaxConns = 1
	cfg.Database.MinConns = 5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_conns < min_conns")
	}
}

func TestValidate_BatchSizeZero(t *testing.T) {
	cfg := validConfig()
	cfg.Import.BatchSize = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for batch_size = 0")
	}
}

func TestValidate_MissingSourceTable(t *testing.T) {
	cfg := validConfig()
	cfg.Import.SourceTable = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing source_table")
	}
}

func TestValidate_MissingOutputPath(t *testing.T) {
	cfg := validConfig()
	cfg.Import.OutputPath = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing output_path")
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
