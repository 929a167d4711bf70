package env

import "os"

// Get reads an environment variable, falling back when it is unset or empty.
func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Bool reads an environment variable as a flag. Only "1" and "true" enable it.
func Bool(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true"
}
