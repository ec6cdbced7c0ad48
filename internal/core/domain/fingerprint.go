package domain

import (
	"encoding/hex"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// fingerprintSeedB is prepended (as 8 little-endian bytes) to every item fed
// to the second digest so that the two
// 64-bit halves of a Fingerprint are independent even when fed identical bytes.
const fingerprintSeedB uint64 = 0x9E3779B97F4A7C15

// HashMode selects how file inputs contribute bytes to a fingerprint.
type HashMode string

const (
	// HashModeStandard canonicalizes a file as (size, modTime, path) without reading its bytes.
	HashModeStandard HashMode = "standard"
	// HashModeDeep canonicalizes a file by its full byte content.
	HashModeDeep HashMode = "deep"
)

// Fingerprint is a 128-bit content-addressed digest of a task binding's identity.
// It is built from two independently-seeded XXH64 streams rather than a single
// 128-bit primitive, since the hash must be built from bytes accumulated
// incrementally across heterogeneous items (session id, source text, bagged
// file hashes, free variables) in the order fixed by the fingerprint recipe.
type Fingerprint [16]byte

// String renders the fingerprint as lowercase hex, matching the on-disk workDir
// shard naming and cache key encoding.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// IsZero reports whether f is the zero fingerprint (never a valid hash of real input).
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// FingerprintBuilder accumulates canonicalized items for one binding in the
// order fixed by the fingerprint recipe (session id, process name, source,
// bagged inputs, free variables) and derives the final Fingerprint.
type FingerprintBuilder struct {
	a *xxhash.Digest
	b *xxhash.Digest
}

// NewFingerprintBuilder creates an empty builder.
func NewFingerprintBuilder() *FingerprintBuilder {
	return &FingerprintBuilder{
		a: xxhash.New(),
		b: xxhash.New(),
	}
}

// WriteString feeds a string item, NUL-terminated so adjacent items cannot alias.
func (fb *FingerprintBuilder) WriteString(s string) *FingerprintBuilder {
	_, _ = fb.a.WriteString(s)
	_, _ = fb.a.Write([]byte{0})
	_, _ = fb.b.Write(seedBytes(s))
	_, _ = fb.b.Write([]byte{0})
	return fb
}

// WriteBag feeds an unordered collection of strings as a canonical (sorted,
// deduplication-preserving) sequence, satisfying the invariant that file
// input order must not affect the fingerprint.
func (fb *FingerprintBuilder) WriteBag(items []string) *FingerprintBuilder {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	for _, it := range sorted {
		fb.WriteString(it)
	}
	fb.WriteString("\x01bag-end")
	return fb
}

// WriteKV feeds one (name, value) pair in declaration order (used for inputs
// where order is meaningful, e.g. the process's declared parameter order).
func (fb *FingerprintBuilder) WriteKV(name, value string) *FingerprintBuilder {
	return fb.WriteString(name).WriteString(value)
}

// Sum finalizes the builder into a 128-bit Fingerprint.
func (fb *FingerprintBuilder) Sum() Fingerprint {
	var out Fingerprint
	hi := fb.a.Sum64()
	lo := fb.b.Sum64()
	for i := 0; i < 8; i++ {
		out[i] = byte(hi >> (8 * (7 - i)))
		out[8+i] = byte(lo >> (8 * (7 - i)))
	}
	return out
}

func seedBytes(s string) []byte {
	// Perturb the input fed to the second digest so it diverges from the
	// first even on identical input, without needing a distinct algorithm.
	b := make([]byte, len(s)+8)
	for i := 0; i < 8; i++ {
		b[i] = byte(fingerprintSeedB >> (8 * i))
	}
	copy(b[8:], s)
	return b
}

// Rehash derives a new fingerprint for retry attempt n (n >= 1), used both by
// the cache probe/submit loop's workDir-collision avoidance and by the RETRY
// error strategy's fresh-workDir requirement.
func Rehash(fp Fingerprint, n int) Fingerprint {
	b := NewFingerprintBuilder()
	b.a.Write(fp[:8])   //nolint:errcheck // xxhash.Digest.Write never errors
	b.b.Write(fp[8:])   //nolint:errcheck
	b.WriteString("rehash")
	b.WriteKV("tries", itoa(n))
	return b.Sum()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
