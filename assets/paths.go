// Package assets resolves where the program keeps its templates and config.
package assets

import (
	"os"
	"path/filepath"
)

const (
	dirName       = "assets"
	templatesName = "templates"
)

// BaseDir returns the directory holding the assets folder: next to the
// executable when one exists there, otherwise the working directory.
func BaseDir() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		if isDir(filepath.Join(dir, dirName)) {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// TemplatesDir returns base/assets/templates.
func TemplatesDir(base string) string {
	return filepath.Join(base, dirName, templatesName)
}

// Resolve returns p unchanged when absolute, otherwise joined to base.
func Resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
