// Package storage writes transcripts to text files named after their title.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scriptscraper/packages/domain"
)

const transcriptExt = ".txt"

type Storage struct {
	dir string
}

// New returns a Storage rooted at dir, creating the directory if needed.
func New(dir string) (*Storage, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, domain.NewFault(domain.FilesystemFault, "create output directory", dir, err)
	}
	return &Storage{dir: dir}, nil
}

// TranscriptPath returns <dir>/<title>.txt. The title is used as-is; titles
// that cannot name a single file in dir are rejected.
func (s *Storage) TranscriptPath(title string) (string, error) {
	if title == "" || strings.ContainsAny(title, "/\x00") || strings.ContainsRune(title, filepath.Separator) {
		return "", domain.NewFault(domain.FilesystemFault, "name transcript file", title,
			fmt.Errorf("%w: title cannot be used as a file name", domain.ErrInvalidFilename))
	}
	return filepath.Join(s.dir, title+transcriptExt), nil
}

// WriteTranscript creates or truncates the title's file and writes text as its
// whole content.
func (s *Storage) WriteTranscript(title, text string) (string, int, error) {
	path, err := s.TranscriptPath(title)
	if err != nil {
		return "", 0, err
	}
	data := []byte(text)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", 0, domain.NewFault(domain.FilesystemFault, "write transcript", path, err)
	}
	slog.Debug("Transcript written", "path", path, "bytes", len(data))
	return path, len(data), nil
}

func (s *Storage) ReadTranscript(title string) (string, error) {
	path, err := s.TranscriptPath(title)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewFault(domain.FilesystemFault, "read transcript", path, err)
	}
	return string(data), nil
}
