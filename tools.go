//go:build tools

// Package tools pins code generators used by go generate.
package tools

import (
	_ "github.com/sqlc-dev/sqlc/cmd/sqlc"
)
