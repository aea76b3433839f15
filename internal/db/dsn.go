package db

import (
	"regexp"
	"strings"
)

// Driver names understood by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// ParseURL classifies a DATABASE_URL value and returns the driver and the DSN to hand it.
// postgres:// URLs and lib/pq key=value lists select postgres; anything else is a sqlite
// file path, optionally prefixed with sqlite:// or sqlite:///.
func ParseURL(raw string) (driver, dsn string) {
	s := strings.Trim(strings.TrimSpace(raw), "\"'")
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, s
	case kvPairRegex.MatchString(s):
		cleaned := strings.Join(strings.Fields(s), " ")
		if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
			cleaned += " sslmode=disable"
		}
		return DriverPostgres, cleaned
	case strings.HasPrefix(lower, "sqlite:///"):
		return DriverSQLite, s[len("sqlite:///"):]
	case strings.HasPrefix(lower, "sqlite://"):
		return DriverSQLite, s[len("sqlite://"):]
	default:
		return DriverSQLite, s
	}
}

// MaskDSN hides the password of a DSN for logging.
func MaskDSN(dsn string) string {
	masked := regexp.MustCompile(`(password=)([^\s]+)`).ReplaceAllString(dsn, `${1}***`)
	return regexp.MustCompile(`(://[^:/@]+:)([^@]+)(@)`).ReplaceAllString(masked, `${1}***${3}`)
}
