package env

import "os"

// prefix matches the envconfig prefix used by pkg/config.
const prefix = "BYBA_"

// Get returns the value of the given environment variable, preferring the
// BYBA_-prefixed form, or a fallback when neither is set. It exists for the
// few lookups that must run before the config layer is loaded.
func Get(key, fallback string) string {
	if val := os.Getenv(prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
