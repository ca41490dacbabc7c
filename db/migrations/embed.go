// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package migrations contains the embedded goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
