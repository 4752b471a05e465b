// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file holds one secret: the filename is the key name and the file
// contents (trimmed) are the value.
//
// Supported key files: openai-api-key, tavily-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// envNames maps key filenames to the environment variables they populate.
var envNames = map[string]string{
	"openai-api-key": "OPENAI_API_KEY",
	"tavily-api-key": "TAVILY_API_KEY",
}

// Load reads every file in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Dotfiles, subdirectories, and empty files are skipped. An unreadable file
// produces a warning on stderr but does not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		value, err := readSecret(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping secret %s: %v\n", name, err)
			continue
		}
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ApplyEnv exports known secrets into the process environment so that env
// lookups see them. A variable already set in the environment keeps its
// value: real environment beats key files.
func ApplyEnv(secrets map[string]string) {
	for file, env := range envNames {
		value, ok := secrets[file]
		if !ok || os.Getenv(env) != "" {
			continue
		}
		os.Setenv(env, value)
	}
}

func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
