// Package secrets resolves secret values from configuration.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Load resolves a secret, trying in order: the file path, the inline value,
// and the named environment variable. name is used in error messages only.
// The returned secret is always trimmed.
func Load(name, file, value, envVar string) (string, error) {
	if file = strings.TrimSpace(file); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		if secret := strings.TrimSpace(string(data)); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	if secret := strings.TrimSpace(value); secret != "" {
		return secret, nil
	}

	if envVar != "" {
		if secret := strings.TrimSpace(os.Getenv(envVar)); secret != "" {
			return secret, nil
		}
	}

	return "", fmt.Errorf("%s is not configured", name)
}
