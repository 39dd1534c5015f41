// Package envfile loads KEY=VALUE environment files for launched jobs.
// The calling process's own environment is never mutated; the parsed
// values are overlaid onto a copy of it, with file values winning, the
// same way `source .env` would behave in a shell.
package envfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Load parses the env file at path and returns the inherited environment
// with the file's pairs overlaid.
func Load(path string) ([]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return Merge(os.Environ(), vars), nil
}

// Merge overlays the given variables onto a base environment in
// KEY=VALUE form. Keys present in overlay replace base entries; overlay
// keys are appended in sorted order so the result is deterministic.
func Merge(base []string, overlay map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if ok {
			if _, shadowed := overlay[key]; shadowed {
				continue
			}
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+overlay[k])
	}
	return merged
}
