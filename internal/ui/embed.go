package ui

import (
	"embed"
	"io/fs"
)

// Dist embeds the login page, the dashboard shell, and their assets.
//
//go:embed all:dist
var Dist embed.FS

// Files returns the dist directory as the root of an fs.FS.
func Files() (fs.FS, error) {
	return fs.Sub(Dist, "dist")
}
