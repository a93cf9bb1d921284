//go:build cgo
// +build cgo

package db

import (
	_ "github.com/mattn/go-sqlite3"
)

const sqlite3Driver = "sqlite3"
