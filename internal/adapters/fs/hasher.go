package fs

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher implements the §4.5 fingerprint recipe: session id, process name,
// source text, a bag of (basename, contentHash) input pairs, and free
// variables, fed in that order into a domain.FingerprintBuilder.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint computes the 128-bit fingerprint for one binding.
func (h *Hasher) Fingerprint(b ports.Binding) (domain.Fingerprint, error) {
	fb := domain.NewFingerprintBuilder()
	fb.WriteString(b.SessionID)
	fb.WriteString(b.ProcessName)
	fb.WriteString(b.Source)

	names := make([]string, 0, len(b.Values)+len(b.Files))
	for name := range b.Values {
		names = append(names, name)
	}
	for name := range b.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if files, ok := b.Files[name]; ok {
			bag := make([]string, 0, len(files))
			for _, path := range files {
				contentHash, err := h.ComputeFileHash(path, b.Mode)
				if err != nil {
					return domain.Fingerprint{}, err
				}
				bag = append(bag, basename(path)+"="+contentHash)
			}
			fb.WriteKV(name, "")
			fb.WriteBag(bag)
			continue
		}
		fb.WriteKV(name, b.Values[name])
	}

	freeNames := make([]string, 0, len(b.FreeVars))
	for name := range b.FreeVars {
		freeNames = append(freeNames, name)
	}
	sort.Strings(freeNames)
	for _, name := range freeNames {
		fb.WriteKV(name, b.FreeVars[name])
	}

	return fb.Sum(), nil
}

// ComputeFileHash hashes a file's content (deep mode) or its (size, modTime,
// path) triple (standard mode), per §4.5.
func (h *Hasher) ComputeFileHash(path string, mode domain.HashMode) (string, error) {
	if mode == domain.HashModeDeep {
		return h.hashContent(path)
	}
	return h.hashMetadata(path)
}

func (h *Hasher) hashContent(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled, staged under workDir
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // best-effort close

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashMetadata(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}

	hasher := xxhash.New()
	_, _ = hasher.WriteString(fmt.Sprintf("%d", info.Size()))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(info.ModTime().UTC().Format("20060102150405.000000000"))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(path)
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
