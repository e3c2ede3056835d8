package adminkit

import "os"

// GetEnvOrDefault reads an environment variable, falling back to the given
// default when it is unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}
