package duckdb

import (
	"os"
	"path/filepath"
	"time"
)

// FileFingerprint identifies the input file of a filter run.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile fingerprints an input file by absolute path, size and mtime.
// Stdin ("-") has no fingerprint beyond its name and the current time.
func StatFile(path string) (FileFingerprint, error) {
	if path == "-" {
		return FileFingerprint{Path: path, ModTime: time.Now()}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
