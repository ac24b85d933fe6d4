package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

const (
	boutsDir    = "bouts"
	fightersDir = "fighters"
)

// Feed is an export directory holding one JSON file per record, laid out
// as bouts/<bout_id>.json and fighters/<fighter_id>.json. Writing a record
// whose id already exists replaces the file.
type Feed struct {
	storageDir string
}

// ReadError describes a failure to read a single record file.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

// BoutListResult contains the bouts in the feed plus any per-file errors.
type BoutListResult struct {
	Bouts  []Bout
	Errors []ReadError
}

// FighterListResult contains the fighters in the feed plus any per-file
// errors.
type FighterListResult struct {
	Fighters []Fighter
	Errors   []ReadError
}

// NewFeed creates a feed rooted at storageDir, creating the directory tree
// if needed.
func NewFeed(storageDir string) (*Feed, error) {
	for _, dir := range []string{boutsDir, fightersDir} {
		// 0700: owner-only access
		if err := os.MkdirAll(filepath.Join(storageDir, dir), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	return &Feed{storageDir: storageDir}, nil
}

// Write saves a record to the feed. The run id is not part of the export
// format; it is accepted so that a Feed can serve as a crawl sink.
func (f *Feed) Write(_ context.Context, _ uuid.UUID, rec Record) error {
	var (
		dir     string
		payload any
	)
	switch {
	case rec.Kind == KindBout && rec.Bout != nil:
		dir, payload = boutsDir, rec.Bout
	case rec.Kind == KindFighter && rec.Fighter != nil:
		dir, payload = fightersDir, rec.Fighter
	default:
		return fmt.Errorf("invalid record of kind %q", rec.Kind)
	}

	id := rec.ID()
	if id == "" || id != filepath.Base(id) {
		return fmt.Errorf("invalid record id %q", id)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", rec.Kind, err)
	}

	// 0600: owner-only read/write
	filename := filepath.Join(f.storageDir, dir, id+".json")
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s record: %w", rec.Kind, err)
	}

	return nil
}

// ListBouts returns all bouts in the feed ordered by event id, then
// ordinal. Corrupted files are collected in the result's Errors slice.
func (f *Feed) ListBouts() (*BoutListResult, error) {
	result := &BoutListResult{}
	err := readDir(filepath.Join(f.storageDir, boutsDir), func(name string, data []byte) {
		var bout Bout
		if err := json.Unmarshal(data, &bout); err != nil {
			result.Errors = append(result.Errors, ReadError{Filename: name, Err: err})
			return
		}
		result.Bouts = append(result.Bouts, bout)
	}, func(name string, err error) {
		result.Errors = append(result.Errors, ReadError{Filename: name, Err: err})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(result.Bouts, func(i, j int) bool {
		a, b := result.Bouts[i], result.Bouts[j]
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		return a.BoutOrdinal < b.BoutOrdinal
	})

	return result, nil
}

// ListFighters returns all fighters in the feed ordered by id.
func (f *Feed) ListFighters() (*FighterListResult, error) {
	result := &FighterListResult{}
	err := readDir(filepath.Join(f.storageDir, fightersDir), func(name string, data []byte) {
		var fighter Fighter
		if err := json.Unmarshal(data, &fighter); err != nil {
			result.Errors = append(result.Errors, ReadError{Filename: name, Err: err})
			return
		}
		result.Fighters = append(result.Fighters, fighter)
	}, func(name string, err error) {
		result.Errors = append(result.Errors, ReadError{Filename: name, Err: err})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetBout retrieves a bout by id. A missing bout returns nil, nil.
func (f *Feed) GetBout(boutID string) (*Bout, error) {
	var bout Bout
	found, err := f.get(boutsDir, boutID, &bout)
	if err != nil || !found {
		return nil, err
	}
	return &bout, nil
}

// GetFighter retrieves a fighter by id. A missing fighter returns nil, nil.
func (f *Feed) GetFighter(fighterID string) (*Fighter, error) {
	var fighter Fighter
	found, err := f.get(fightersDir, fighterID, &fighter)
	if err != nil || !found {
		return nil, err
	}
	return &fighter, nil
}

func (f *Feed) get(dir, id string, out any) (bool, error) {
	if id == "" || id != filepath.Base(id) {
		return false, nil
	}

	data, err := os.ReadFile(filepath.Join(f.storageDir, dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read record: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return true, nil
}

// readDir calls onFile for every .json file in dir (sorted by name) and
// onErr for files that could not be read.
func readDir(dir string, onFile func(string, []byte), onErr func(string, error)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read storage directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			onErr(entry.Name(), err)
			continue
		}
		onFile(entry.Name(), data)
	}

	return nil
}
