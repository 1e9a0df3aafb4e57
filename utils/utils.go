package utils

import (
	"fmt"
	"os"
	"strings"
)

// ObfuscateEmail masks the local part of an address for log output,
// e.g. "us***@example.com". Anything that does not look like an email is
// returned unchanged.
func ObfuscateEmail(email string) string {
	if email == "" || !strings.Contains(email, "@") {
		return email
	}

	parts := strings.SplitN(email, "@", 2)
	local, domain := parts[0], parts[1]
	if len(local) <= 2 {
		return fmt.Sprintf("%s***@%s", local, domain)
	}
	return fmt.Sprintf("%s***@%s", local[:2], domain)
}

// GetEnv reads an environment variable, falling back to a default when the
// variable is unset or empty
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
