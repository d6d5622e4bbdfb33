// Package web holds the dashboard shell served when no STATIC_DIR is set.
package web

import "embed"

//go:embed index.html error.html
var FS embed.FS
