package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/titanous/json5"
)

// LoadFile overlays a JSON5 config file, then its <name>.local.<ext>
// sibling, on top of base. Only keys present in a file are changed, so a
// file may set a boolean back to false. At least one of the two files must
// exist.
func LoadFile(path string, base *Config) (*Config, error) {
	out := *base
	out.Auth.APIKeys = slices.Clone(base.Auth.APIKeys)
	found := false

	ext := filepath.Ext(path)
	local := strings.TrimSuffix(path, ext) + ".local" + ext

	for _, name := range []string{path, local} {
		data, err := os.ReadFile(name)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", name, err)
		}
		if len(data) == 0 {
			continue
		}

		if err := json5.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", name, err)
		}
		slog.Info("applied config file", "path", name)
		found = true
	}

	if !found {
		return nil, fmt.Errorf("config %s: %w", path, os.ErrNotExist)
	}
	return &out, nil
}
