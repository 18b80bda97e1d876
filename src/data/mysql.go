package data

import (
	"os"
	"strings"
)

// GetMySQLDSN returns the MySQL DSN configured via environment. MySQL is
// optional; an empty DSN means settings come from the environment only.
func GetMySQLDSN() (string, bool) {
	dsn := strings.TrimSpace(os.Getenv("MYSQL_DSN"))
	return dsn, dsn != ""
}
