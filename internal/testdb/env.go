//go:build integration

package testdb

import "os"

// URLEnvVars lists the variables consulted for the test database URL, in order.
var URLEnvVars = []string{"BOOKSHELF_TEST_DB_URL", "DATABASE_URL"}

// DatabaseURL returns the first non-empty URL from URLEnvVars.
func DatabaseURL() string {
	for _, name := range URLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsCI reports whether the tests run under a CI system.
func IsCI() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
