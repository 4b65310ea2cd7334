package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/munchclub/muncher/internal/logger"
)

// Fixed-width down to nanoseconds so filenames sort chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000"

// FileStore keeps snapshots in a directory: the live copy under basename,
// backups under basename_<timestamp>. Single-writer only; there is no
// locking.
type FileStore struct {
	folder    string
	basename  string
	validator Validator
	maxTries  int
	numKeep   int
	log       *log.Logger
}

// NewFileStore creates a filesystem-backed store, creating the folder if
// it is missing.
func NewFileStore(folder, basename string, maxTries, numKeep int, validator Validator) (*FileStore, error) {
	s := &FileStore{
		folder:    folder,
		basename:  basename,
		validator: validator,
		maxTries:  maxTries,
		numKeep:   numKeep,
		log:       logger.Store("fs"),
	}

	if _, err := os.Stat(folder); os.IsNotExist(err) {
		s.log.Warn("data directory does not exist, creating it", "folder", folder)
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", folder, err)
		}
	}
	return s, nil
}

// Save writes a timestamped backup, self-checks it through the validator,
// advances the current file and prunes old backups. A failed self-check
// is logged but does not abort the save.
func (s *FileStore) Save(data []byte) error {
	backup := s.timestampFile()
	if err := s.writeFile(backup, data); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	if _, err := s.loadFile(backup); err != nil {
		s.log.Error("snapshot failed its self-check", "file", backup, "error", err)
	}

	if err := s.writeFile(s.currentFile(), data); err != nil {
		return fmt.Errorf("write current file: %w", err)
	}

	s.cleanup()
	return nil
}

// Load returns the current file if it validates, otherwise walks the most
// recent backups newest first. The timestamped sequence is the true
// source of truth when the current file is absent or corrupt.
func (s *FileStore) Load() ([]byte, error) {
	if data, err := s.loadFile(s.currentFile()); err == nil {
		return data, nil
	} else {
		s.log.Warn("unable to load current file, falling back to backups", "error", err)
	}

	backups, err := s.backupFiles()
	if err != nil {
		return nil, err
	}

	tries := min(s.maxTries, len(backups))
	for i := 0; i < tries; i++ {
		name := backups[len(backups)-1-i]
		data, err := s.loadFile(filepath.Join(s.folder, name))
		if err == nil {
			return data, nil
		}
		s.log.Warn("unable to load backup", "file", name, "error", err)
	}

	return nil, fmt.Errorf("tried the %d most recent backups: %w", s.maxTries, ErrNoValidBackup)
}

func (s *FileStore) currentFile() string {
	return filepath.Join(s.folder, s.basename)
}

func (s *FileStore) timestampFile() string {
	ts := time.Now().Format(timestampLayout)
	return filepath.Join(s.folder, s.basename+"_"+ts)
}

// writeFile writes via a temp file in the same directory plus rename, so
// a reader never observes a partially written snapshot.
func (s *FileStore) writeFile(filename string, data []byte) error {
	s.log.Debug("saving", "file", filename)

	tmp, err := os.CreateTemp(s.folder, s.basename+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	s.log.Debug("saved", "file", filename)
	return nil
}

func (s *FileStore) loadFile(filename string) ([]byte, error) {
	s.log.Debug("loading", "file", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := s.validator(data); err != nil {
		return nil, err
	}

	s.log.Info("loaded snapshot", "file", filename)
	return data, nil
}

// backupFiles lists timestamped backups in ascending (chronological)
// order, excluding the current file and stray temp files.
func (s *FileStore) backupFiles() ([]string, error) {
	entries, err := os.ReadDir(s.folder)
	if err != nil {
		return nil, fmt.Errorf("list data directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), s.basename+"_") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) cleanup() {
	backups, err := s.backupFiles()
	if err != nil {
		s.log.Error("unable to list backups for cleanup", "error", err)
		return
	}
	if len(backups) <= s.numKeep {
		return
	}
	for _, name := range backups[:len(backups)-s.numKeep] {
		s.log.Debug("deleting old backup", "file", name)
		if err := os.Remove(filepath.Join(s.folder, name)); err != nil {
			s.log.Error("unable to delete old backup", "file", name, "error", err)
		}
	}
}
