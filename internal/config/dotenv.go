package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/joho/godotenv"
)

// Diagnostics records what Load read and applied, for logging at startup.
// Values are never recorded, only key names.
type Diagnostics struct {
	Dotenv   string
	Applied  []string
	Skipped  []string
	Files    []string
	Warnings []string
}

// loadDotenv reads path and sets each key that is not already present in the
// environment. A missing file is not an error.
func loadDotenv(path string, diag *Diagnostics) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read dotenv %s: %w", path, err)
	}

	diag.Dotenv = path

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if _, ok := os.LookupEnv(k); ok {
			diag.Skipped = append(diag.Skipped, k)
			continue
		}
		if err := os.Setenv(k, values[k]); err != nil {
			diag.Warnings = append(diag.Warnings, fmt.Sprintf("set %s: %v", k, err))
			continue
		}
		diag.Applied = append(diag.Applied, k)
	}

	return nil
}
