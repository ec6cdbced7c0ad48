package cache

import (
	"bufio"
	"io"
	"os"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"go.trai.ch/zerr"
)

// recordSize is the fixed width of one index record: 16-byte hash + 1-byte bool, per §6.
const recordSize = 16 + 1

// indexWriter appends fixed-width records to index.<runName>.
type indexWriter struct {
	f *os.File
}

func newIndexWriter(path string, truncate bool) (*indexWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags |= os.O_TRUNC
	}
	//nolint:gosec // path is derived from the session's own cache directory
	f, err := os.OpenFile(path, flags, domain.FilePerm)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open cache index")
	}
	return &indexWriter{f: f}, nil
}

func (w *indexWriter) append(hash domain.Fingerprint, cached bool) error {
	var buf [recordSize]byte
	copy(buf[:16], hash[:])
	if cached {
		buf[16] = 1
	}
	if _, err := w.f.Write(buf[:]); err != nil {
		return zerr.Wrap(err, "failed to append cache index record")
	}
	return w.f.Sync()
}

type indexRecord struct {
	hash   domain.Fingerprint
	cached bool
}

// readIndex reads every well-formed record from path in file order. A
// trailing partial record (from a crash mid-write) is reported via
// domain.ErrIndexCorrupt rather than silently dropped, since a truncated tail
// is distinguishable from a clean EOF.
func readIndex(path string) ([]indexRecord, error) {
	//nolint:gosec // path is derived from the session's own cache directory
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open cache index")
	}
	defer f.Close() //nolint:errcheck // read-only fd

	var records []indexRecord
	r := bufio.NewReader(f)
	buf := make([]byte, recordSize)
	for {
		n, err := io.ReadFull(r, buf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return records, zerr.With(domain.ErrIndexCorrupt, "trailing_bytes", n)
		}
		if err != nil {
			return nil, zerr.Wrap(err, "failed to read cache index")
		}

		var rec indexRecord
		copy(rec.hash[:], buf[:16])
		rec.cached = buf[16] != 0
		records = append(records, rec)
	}
	return records, nil
}
