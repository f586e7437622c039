package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"lead-intake/errors"
	"lead-intake/models"

	"github.com/samber/lo"
)

// LeadStore is an append-only, newline-delimited JSON log of leads backed by
// a single file. Appends are serialized in-process; scans re-read the file
// every time and never see a partially written record.
type LeadStore struct {
	path string
	dir  string
	now  func() time.Time

	mu        sync.RWMutex
	ready     bool
	lastStamp time.Time
}

// Option customizes a LeadStore.
type Option func(*LeadStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *LeadStore) {
		s.now = now
	}
}

// NewLeadStore returns a store writing to path. Nothing touches the disk
// until the first Append.
func NewLeadStore(path string, opts ...Option) *LeadStore {
	s := &LeadStore{
		path: path,
		dir:  filepath.Dir(path),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the log file location.
func (s *LeadStore) Path() string {
	return s.path
}

// EnsureReady creates the data directory if needed. It is idempotent and
// safe for concurrent callers; an existing directory is success.
func (s *LeadStore) EnsureReady() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureReadyLocked()
}

func (s *LeadStore) ensureReadyLocked() error {
	if s.ready {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.NewIOError(fmt.Sprintf("cannot create data directory %s", s.dir), err)
	}
	s.ready = true
	return nil
}

// Append stamps lead.CreatedAt and writes it as one line after all prior
// records. Any CreatedAt set by the caller is overwritten. The stamped lead
// is returned. Identical leads appended twice produce two records.
func (s *LeadStore) Append(ctx context.Context, lead models.Lead) (models.Lead, error) {
	if err := ctx.Err(); err != nil {
		return models.Lead{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureReadyLocked(); err != nil {
		return models.Lead{}, err
	}

	lead.CreatedAt = s.stampLocked()

	line, err := json.Marshal(lead)
	if err != nil {
		return models.Lead{}, errors.E(errors.Internal, "cannot encode lead", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		// The directory may have been removed after provisioning.
		s.ready = false
		return models.Lead{}, errors.NewIOError(fmt.Sprintf("cannot open lead log %s", s.path), err)
	}

	size, torn, err := tailState(f)
	if err != nil {
		f.Close()
		return models.Lead{}, errors.NewIOError("cannot inspect lead log", err)
	}
	if torn {
		// Terminate a partial trailing line so the new record starts on its own.
		line = append([]byte{'\n'}, line...)
	}

	if _, err := f.Write(line); err != nil {
		if terr := f.Truncate(size); terr != nil {
			err = fmt.Errorf("%w (truncate: %v)", err, terr)
		}
		f.Close()
		return models.Lead{}, errors.NewIOError("cannot write lead record", err)
	}
	if err := f.Close(); err != nil {
		return models.Lead{}, errors.NewIOError("cannot close lead log", err)
	}

	return lead, nil
}

// tailState returns the size of f and whether its last byte is something
// other than a newline.
func tailState(f *os.File) (int64, bool, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, false, err
	}
	size := info.Size()
	if size == 0 {
		return 0, false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return 0, false, err
	}
	return size, last[0] != '\n', nil
}

// stampLocked returns the current UTC instant at millisecond precision,
// always later than the previous stamp.
func (s *LeadStore) stampLocked() time.Time {
	ts := s.now().UTC().Truncate(time.Millisecond)
	if !ts.After(s.lastStamp) && !s.lastStamp.IsZero() {
		ts = s.lastStamp.Add(time.Millisecond)
	}
	s.lastStamp = ts
	return ts
}

// Entry is one non-blank line of the log: either a Lead or a ParseFailure.
type Entry struct {
	Line    int
	Lead    *models.Lead
	Failure *ParseFailure
}

// Valid reports whether the entry holds a lead.
func (e Entry) Valid() bool {
	return e.Lead != nil
}

// ParseFailure marks a log line that could not be read back as a lead.
type ParseFailure struct {
	Line int
	Raw  string
	Err  error
}

func (p *ParseFailure) Error() string {
	return fmt.Sprintf("line %d: %v", p.Line, p.Err)
}

func (p *ParseFailure) Unwrap() error {
	return errors.E(errors.Corrupt, p.Err)
}

// maxRawLen bounds how much of a corrupt line is kept for diagnostics.
const maxRawLen = 256

// ScanAll reads the whole log in append order. Each line is parsed on its
// own; unreadable lines become ParseFailure entries and the scan goes on.
// A log that does not exist yet yields an empty result.
func (s *LeadStore) ScanAll(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, errors.NewIOError(fmt.Sprintf("cannot read lead log %s", s.path), err)
	}

	return ParseLog(data), nil
}

// ParseLog splits data on newlines and decodes each non-blank line.
// Line numbers are 1-based positions in data.
func ParseLog(data []byte) []Entry {
	entries := []Entry{}
	for i, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		lineNo := i + 1
		lead, err := ParseRecord(line)
		if err != nil {
			entries = append(entries, Entry{Line: lineNo, Failure: &ParseFailure{
				Line: lineNo,
				Raw:  truncate(string(line), maxRawLen),
				Err:  err,
			}})
			continue
		}
		entries = append(entries, Entry{Line: lineNo, Lead: &lead})
	}
	return entries
}

// ParseRecord decodes a single serialized lead. Only a JSON object with
// correctly typed fields and a valid createdAt is accepted.
func ParseRecord(line []byte) (models.Lead, error) {
	if len(line) == 0 || line[0] != '{' {
		return models.Lead{}, fmt.Errorf("record is not a JSON object")
	}
	var lead models.Lead
	if err := json.Unmarshal(line, &lead); err != nil {
		return models.Lead{}, err
	}
	return lead, nil
}

// Leads keeps the valid records of entries, in order.
func Leads(entries []Entry) []models.Lead {
	return lo.FilterMap(entries, func(e Entry, _ int) (models.Lead, bool) {
		if e.Lead == nil {
			return models.Lead{}, false
		}
		return *e.Lead, true
	})
}

// Failures keeps the parse failures of entries, in order.
func Failures(entries []Entry) []*ParseFailure {
	return lo.FilterMap(entries, func(e Entry, _ int) (*ParseFailure, bool) {
		return e.Failure, e.Failure != nil
	})
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
