package utils

import "os"

// IsDebug reports whether verbose debug logging was requested.
func IsDebug() bool {
	return os.Getenv("DEBUG") != ""
}
