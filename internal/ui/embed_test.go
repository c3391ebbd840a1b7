package ui

import (
	"io/fs"
	"testing"
)

func TestFilesContainsPages(t *testing.T) {
	files, err := Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	for _, name := range []string{"login.html", "index.html", "assets/app.css", "assets/login.js", "assets/dashboard.js", "robots.txt"} {
		if _, err := fs.Stat(files, name); err != nil {
			t.Errorf("missing embedded file %s: %v", name, err)
		}
	}
}
