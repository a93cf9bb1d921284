// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"os"
	"strings"
	"testing"
)

// MySQLDSNEnv names the variable that points integration tests at a live
// MySQL store holding the task tables.
const MySQLDSNEnv = "TASKDECK_TEST_MYSQL_DSN"

// RequireMySQL returns the integration DSN, skipping the test when it is
// unset or when running with -short.
func RequireMySQL(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MySQL integration test in short mode")
	}
	dsn := strings.TrimSpace(os.Getenv(MySQLDSNEnv))
	if dsn == "" {
		t.Skipf("skipping MySQL integration test: %s is not set", MySQLDSNEnv)
	}
	return dsn
}
