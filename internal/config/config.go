package config

import "time"

// Config is the root configuration for the cmd/ldatranslate-dictimport tool.
// Library packages (translate, tokenizer, alignedarticle) take explicit Go
// struct options instead of reading the environment; this Config only
// configures the one retained CLI entry point and its Postgres source.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings for the bilingual
// lexicon source table read by cmd/ldatranslate-dictimport.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// ImportConfig controls the bulk dictionary import.
type ImportConfig struct {
	// SourceTable is the Postgres table holding (word_a, word_b, dictionary, meta) rows.
	SourceTable string `yaml:"source_table" env:"IMPORT_SOURCE_TABLE" env-default:"bilingual_lexicon"`
	// BatchSize is the number of rows fetched per page from SourceTable.
	BatchSize int `yaml:"batch_size" env:"IMPORT_BATCH_SIZE" env-default:"5000"`
	// OutputPath is where the resulting dictionary is written: JSON when the
	// path ends in .json, the native binary container otherwise.
	OutputPath string `yaml:"output_path" env:"IMPORT_OUTPUT_PATH" env-required:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
