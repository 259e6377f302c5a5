package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JSONRepository stores one JSON object per line in an append-only file.
type JSONRepository struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	nextID int64
}

func OpenJSON(path string) (*JSONRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	repo := &JSONRepository{path: path, file: file, nextID: 1}

	records, size, err := scanRecords(path)
	if err != nil {
		file.Close()
		return nil, err
	}
	if err := repo.repairTail(size); err != nil {
		file.Close()
		return nil, err
	}
	if n := len(records); n > 0 {
		repo.nextID = records[n-1].ID + 1
	}
	return repo, nil
}

func (r *JSONRepository) SavePrediction(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return ErrClosed
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	stored := *rec
	stored.ID = r.nextID
	line, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", r.path, err)
	}
	if _, err := r.file.Write(append(line, '\n')); err != nil {
		if terr := r.file.Truncate(info.Size()); terr != nil {
			return fmt.Errorf("append feedback: %w (rollback: %v)", err, terr)
		}
		return fmt.Errorf("append feedback: %w", err)
	}
	// The line is in the file from here on, even if Sync fails.
	r.nextID++
	rec.ID = stored.ID
	if err := r.file.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", r.path, err)
	}
	return nil
}

// repairTail cuts an unterminated last line left by an interrupted append.
func (r *JSONRepository) repairTail(valid int64) error {
	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", r.path, err)
	}
	if info.Size() == valid {
		return nil
	}
	if err := r.file.Truncate(valid); err != nil {
		return fmt.Errorf("truncate torn line in %s: %w", r.path, err)
	}
	return nil
}

func (r *JSONRepository) AllPredictions(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil, ErrClosed
	}
	records, _, err := scanRecords(r.path)
	return records, err
}

func (r *JSONRepository) Count(ctx context.Context) (int, error) {
	records, err := r.AllPredictions(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (r *JSONRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// scanRecords parses every newline-terminated line and returns the byte
// length they cover. A final line without a newline is a torn write and is
// left out; a bad line anywhere else is an error.
func scanRecords(path string) ([]Record, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	records := make([]Record, 0)
	var offset int64
	lineNo := 0
	for len(data) > 0 {
		end := bytes.IndexByte(data, '\n')
		if end < 0 {
			break
		}
		lineNo++
		line := bytes.TrimSpace(data[:end])
		data = data[end+1:]
		offset += int64(end + 1)
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, 0, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		records = append(records, rec)
	}
	return records, offset, nil
}
