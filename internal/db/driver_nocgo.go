//go:build !cgo
// +build !cgo

package db

// Without cgo the sqlite3 driver name falls back to the pure Go driver.
const sqlite3Driver = DriverSQLite
