package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn must be set")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns (%d) must be >= min_conns (%d)", c.Database.MaxConns, c.Database.MinConns)
	}

	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("import.batch_size must be > 0 (got %d)", c.Import.BatchSize)
	}
	if c.Import.SourceTable == "" {
		return fmt.Errorf("import.source_table must be set")
	}
	if c.Import.OutputPath == "" {
		return fmt.Errorf("import.output_path must be set")
	}

	return nil
}
