package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// HighscoreStore loads and saves the single best score.
type HighscoreStore interface {
	// Load returns the stored highscore. Any read problem yields 0.
	Load() int
	// Save replaces the stored highscore.
	Save(score int) error
}

// ScoreRecorder is implemented by stores that keep every finished game,
// not just the best one.
type ScoreRecorder interface {
	Record(score int) error
}

// DefaultHighscoreFile is the file name used when no path is configured.
const DefaultHighscoreFile = "highscore"

// FileStore keeps the highscore as a decimal number in a text file.
// Writes are plain overwrites: a crash mid-write can leave a corrupt
// file, which then reads as 0.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. An empty path means
// "highscore" in the working directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultHighscoreFile
	}
	return &FileStore{path: expandHome(path)}
}

// Path returns the file the store reads and writes.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the highscore. Missing, unreadable or malformed files yield 0.
func (f *FileStore) Load() int {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return 0
	}
	score, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || score < 0 {
		return 0
	}
	return score
}

// Save writes score as the file's sole content.
func (f *FileStore) Save(score int) error {
	if err := os.WriteFile(f.path, []byte(strconv.Itoa(score)), 0o644); err != nil {
		return fmt.Errorf("storage: cannot write highscore %s: %w", f.path, err)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
// The path is returned unchanged if the home directory is unknown.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
