package cardflow

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configuration for the cardflow service layer. The
// extraction/serialization core itself takes no configuration.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to <storage dir>/<DBName>.db.
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the database name used when DBPath is empty.
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath is
	// not set: "home" uses ~/.cardflow/, "local" the working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// DefaultTheme is the export theme used when a request names none.
	DefaultTheme string `json:"default_theme" yaml:"default_theme"`

	// MaxUploadMB caps multipart upload size in the HTTP shell.
	MaxUploadMB int `json:"max_upload_mb" yaml:"max_upload_mb"`
}

// DefaultConfig returns a Config with sensible defaults. The database
// is stored in ~/.cardflow/cardflow.db.
func DefaultConfig() Config {
	return Config{
		DBName:       "cardflow",
		StorageDir:   "home",
		DefaultTheme: "modern",
		MaxUploadMB:  100,
	}
}

// Validate checks configuration values.
func (c Config) Validate() error {
	switch c.StorageDir {
	case "", "home", "local":
	default:
		return fmt.Errorf("%w: storage_dir must be \"home\" or \"local\", got %q", ErrInvalidConfig, c.StorageDir)
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("%w: max_upload_mb must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// ResolveDBPath returns the effective database file path.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}

	name := c.DBName
	if name == "" {
		name = "cardflow"
	}

	if c.StorageDir == "local" {
		return name + ".db", nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".cardflow", name+".db"), nil
}
