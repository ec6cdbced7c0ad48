// Package history implements the append-only run log of §4.9: a tab-separated
// text file mapping (sessionId, runName) to the command line that produced it.
package history

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.History = (*File)(nil)

// File implements ports.History over <baseDir>/.nextflow.history. Appends and
// rewrites are serialized by an in-process mutex, standing in for the
// per-file advisory lock called for in §7's shared-resource policy (a single
// nf process owns the file at a time in this implementation).
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a File rooted at <baseDir>/.nextflow.history.
func NewFile(baseDir string) *File {
	return &File{path: domain.DefaultHistoryPath(baseDir)}
}

// Append writes one new entry, creating the file if necessary.
func (f *File) Append(sessionID, runName, commandLine string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// #nosec G304 -- path is fixed relative to the session's own baseDir
	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to open history file")
	}
	defer fh.Close()

	line := formatEntry(domain.HistoryEntry{
		Timestamp:   time.Now(),
		RunName:     runName,
		SessionID:   sessionID,
		CommandLine: commandLine,
	})
	if _, err := fh.WriteString(line + "\n"); err != nil {
		return zerr.Wrap(err, "failed to append history entry")
	}
	return nil
}

// All returns every entry in history order: sorted by timestamp, oldest
// first, with entries of equal timestamp (such as legacy lines, which carry
// none) kept in file order.
func (f *File) All() ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readAllLocked()
}

// FindByIDPrefix returns every entry whose sessionId starts with prefix.
func (f *File) FindByIDPrefix(prefix string) ([]domain.HistoryEntry, error) {
	entries, err := f.All()
	if err != nil {
		return nil, err
	}
	var matches []domain.HistoryEntry
	for _, e := range entries {
		if strings.HasPrefix(e.SessionID, prefix) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// FindByName returns the entry with the given runName, or nil.
func (f *File) FindByName(runName string) (*domain.HistoryEntry, error) {
	entries, err := f.All()
	if err != nil {
		return nil, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].RunName == runName {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, nil //nolint:nilnil // not found is a valid, non-error outcome
}

// FindBy resolves a token per §4.9: "last" maps to the most recent entry, a
// uuid-shaped token to FindByIDPrefix (erroring if ambiguous), else FindByName.
func (f *File) FindBy(token string) (*domain.HistoryEntry, error) {
	entries, err := f.All()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrHistoryEntryNotFound
	}

	if token == "last" || token == "" {
		e := entries[len(entries)-1]
		return &e, nil
	}

	if domain.IsUUIDShaped(token) {
		matches, err := f.FindByIDPrefix(token)
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 0:
			return nil, domain.ErrHistoryEntryNotFound
		case 1:
			return &matches[0], nil
		default:
			ids := make([]string, len(matches))
			for i, m := range matches {
				ids[i] = m.SessionID
			}
			return nil, zerr.With(domain.ErrAmbiguousHistoryID, "matches", strings.Join(ids, ", "))
		}
	}

	entry, err := f.FindByName(token)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrHistoryEntryNotFound
	}
	return entry, nil
}

// FindBefore returns every entry strictly preceding token's entry, in history order.
func (f *File) FindBefore(token string) ([]domain.HistoryEntry, error) {
	entries, idx, err := f.locate(token)
	if err != nil {
		return nil, err
	}
	return append([]domain.HistoryEntry(nil), entries[:idx]...), nil
}

// FindAfter returns every entry strictly following token's entry, in history order.
func (f *File) FindAfter(token string) ([]domain.HistoryEntry, error) {
	entries, idx, err := f.locate(token)
	if err != nil {
		return nil, err
	}
	return append([]domain.HistoryEntry(nil), entries[idx+1:]...), nil
}

// FindBut returns every entry except token's entry, in history order.
func (f *File) FindBut(token string) ([]domain.HistoryEntry, error) {
	entries, idx, err := f.locate(token)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HistoryEntry, 0, len(entries)-1)
	out = append(out, entries[:idx]...)
	out = append(out, entries[idx+1:]...)
	return out, nil
}

func (f *File) locate(token string) ([]domain.HistoryEntry, int, error) {
	entries, err := f.All()
	if err != nil {
		return nil, 0, err
	}
	target, err := f.FindBy(token)
	if err != nil {
		return nil, 0, err
	}
	for i, e := range entries {
		if e.SessionID == target.SessionID && e.RunName == target.RunName {
			return entries, i, nil
		}
	}
	return nil, 0, domain.ErrHistoryEntryNotFound
}

// DeleteEntry rewrites the file without the given entry.
func (f *File) DeleteEntry(entry domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readAllLocked()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.SessionID == entry.SessionID && e.RunName == entry.RunName {
			continue
		}
		kept = append(kept, e)
	}

	return f.writeAllLocked(kept)
}

func (f *File) readAllLocked() ([]domain.HistoryEntry, error) {
	// #nosec G304 -- path is fixed relative to the session's own baseDir
	fh, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to open history file")
	}
	defer fh.Close()

	var entries []domain.HistoryEntry
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := parseEntry(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read history file")
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (f *File) writeAllLocked(entries []domain.HistoryEntry) error {
	tmp := f.path + ".tmp"
	fh, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to rewrite history file")
	}

	w := bufio.NewWriter(fh)
	for _, e := range entries {
		if _, err := w.WriteString(formatEntry(e) + "\n"); err != nil {
			fh.Close()
			return zerr.Wrap(err, "failed to rewrite history file")
		}
	}
	if err := w.Flush(); err != nil {
		fh.Close()
		return zerr.Wrap(err, "failed to rewrite history file")
	}
	if err := fh.Close(); err != nil {
		return zerr.Wrap(err, "failed to rewrite history file")
	}
	return os.Rename(tmp, f.path)
}

// formatEntry renders the canonical 4-column form: timestamp, runName,
// sessionId, commandLine. Per Open Question 1, only this form is ever
// written, even when the in-memory entry was parsed from a legacy line.
func formatEntry(e domain.HistoryEntry) string {
	ts := strconv.FormatInt(e.Timestamp.UnixNano(), 10)
	return strings.Join([]string{ts, e.RunName, e.SessionID, e.CommandLine}, "\t")
}

// parseEntry accepts the canonical 4-column form and, per Open Question 1,
// both legacy 2-column orderings: a uuid-shaped first column is treated as
// sessionId, anything else as runName.
func parseEntry(line string) (domain.HistoryEntry, error) {
	fields := strings.Split(line, "\t")
	switch len(fields) {
	case 4:
		ts, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return domain.HistoryEntry{}, zerr.With(zerr.Wrap(err, "malformed history timestamp"), "line", line)
		}
		return domain.HistoryEntry{
			Timestamp:   time.Unix(0, ts),
			RunName:     fields[1],
			SessionID:   fields[2],
			CommandLine: fields[3],
		}, nil
	case 2:
		if domain.IsUUIDShaped(fields[0]) {
			return domain.HistoryEntry{SessionID: fields[0], CommandLine: fields[1]}, nil
		}
		return domain.HistoryEntry{RunName: fields[0], CommandLine: fields[1]}, nil
	default:
		return domain.HistoryEntry{}, zerr.With(zerr.New("malformed history line"), "line", line)
	}
}
