// Package secrets resolves credentials from environment references or
// secret files (Docker/Kubernetes secrets) so they need not sit in config.yaml.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/birdnet-sql/internal/errors"
	"github.com/tphakala/birdnet-sql/internal/logger"
)

// maxSecretFileSize limits secret file reads; secrets are passwords, not documents.
const maxSecretFileSize = 64 * 1024

// ExpandString expands ${VAR} and ${VAR:-default} references in s. A referenced
// variable that is unset and has no default is an error.
func ExpandString(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	var missing []string
	expanded := os.Expand(s, func(key string) string {
		name, fallback, hasFallback := strings.Cut(key, ":-")
		if value := os.Getenv(name); value != "" {
			return value
		}
		if hasFallback {
			return fallback
		}
		missing = append(missing, name)
		return ""
	})

	if len(missing) > 0 {
		return "", configError(fmt.Errorf("missing required environment variable(s): %s", strings.Join(missing, ", ")))
	}
	return expanded, nil
}

// ReadFile reads a secret from path, dropping trailing newlines. Files readable by
// group or others are accepted with a warning on log.
func ReadFile(path string, log logger.Logger) (string, error) {
	if path == "" {
		return "", configError(errors.NewStd("secret file path is empty"))
	}
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", configError(fmt.Errorf("failed to stat secret file %s: %w", cleanPath, err))
	}
	if !info.Mode().IsRegular() {
		return "", configError(fmt.Errorf("secret path is not a regular file: %s", cleanPath))
	}
	if info.Size() > maxSecretFileSize {
		return "", configError(fmt.Errorf("secret file too large (max %d bytes): %s", maxSecretFileSize, cleanPath))
	}

	if perm := info.Mode().Perm(); perm&0o077 != 0 && log != nil {
		log.Warn("secret file is readable by group or others",
			logger.String("path", cleanPath),
			logger.String("mode", fmt.Sprintf("%04o", perm)))
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", configError(fmt.Errorf("failed to read secret file %s: %w", cleanPath, err))
	}

	secret := strings.TrimRight(string(data), "\r\n")
	if secret == "" {
		return "", configError(fmt.Errorf("secret file is empty: %s", cleanPath))
	}
	return secret, nil
}

// Resolve returns the secret from filePath when set, otherwise value with
// environment references expanded.
func Resolve(filePath, value string, log logger.Logger) (string, error) {
	if filePath != "" {
		return ReadFile(filePath, log)
	}
	return ExpandString(value)
}

func configError(err error) error {
	return errors.New(err).
		Component("secrets").
		Category(errors.CategoryConfiguration).
		Build()
}
