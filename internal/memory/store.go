package memory

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// maxFileBytes is the rotation threshold (10 MB).
const maxFileBytes = 10 * 1024 * 1024

// maxRotatedFiles caps how many `.N.jsonl` backups are retained.
const maxRotatedFiles = 1

// Store is an append-only JSONL event writer with size-based rotation,
// guarded by an advisory flock so a concurrent VoiceTerm process sharing
// the same project directory can't interleave lines.
type Store struct {
	mu    sync.Mutex
	path  string
	file  *os.File
	lock  *flock.Flock
	bytes int64
}

// Open creates or appends to the JSONL store at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("memory store dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Store{
		path:  path,
		file:  f,
		lock:  flock.New(path + ".lock"),
		bytes: info.Size(),
	}, nil
}

// Append writes one event as a JSON line, rotating first if the file has
// already exceeded maxFileBytes.
func (s *Store) Append(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock memory store: %w", err)
	}
	defer s.lock.Unlock()

	if s.bytes >= maxFileBytes {
		if err := s.rotateLocked(); err != nil {
			return err
		}
	}

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal memory event: %w", err)
	}
	line = append(line, '\n')
	n, err := s.file.Write(line)
	if err != nil {
		return fmt.Errorf("write memory event: %w", err)
	}
	s.bytes += int64(n)
	return nil
}

// rotateLocked renames the current file to its .1.jsonl backup, discarding
// anything older than maxRotatedFiles, and reopens a fresh file. Caller
// must hold s.mu and s.lock.
func (s *Store) rotateLocked() error {
	s.file.Close()

	for i := maxRotatedFiles; i >= 1; i-- {
		from := rotatedPath(s.path, i)
		if i == maxRotatedFiles {
			os.Remove(from)
			continue
		}
		to := rotatedPath(s.path, i+1)
		if _, err := os.Stat(from); err == nil {
			os.Rename(from, to)
		}
	}
	if err := os.Rename(s.path, rotatedPath(s.path, 1)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotate memory store: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("reopen memory store: %w", err)
	}
	s.file = f
	s.bytes = 0
	return nil
}

func rotatedPath(base string, index int) string {
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	return fmt.Sprintf("%s.%d%s", stem, index, ext)
}

// Close flushes and closes the underlying file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// ReadAll reads every well-formed event from path, oldest first, silently
// skipping malformed lines for forward compatibility.
func ReadAll(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return events, err
	}
	return events, nil
}
