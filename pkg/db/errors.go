package db

import "strings"

// IsUniqueViolation reports whether err is a Postgres unique violation. With a
// constraint name it matches that constraint specifically, otherwise any
// duplicate-key failure counts.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraint != "" {
		return strings.Contains(msg, "duplicate key") && strings.Contains(msg, constraint)
	}
	return strings.Contains(msg, "duplicate key value")
}
