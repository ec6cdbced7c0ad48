package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements §4.3's file input normalization and wildcard expansion.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// NormalizeAndStage materializes each value into workDir: a value already
// rooted under workDir is used as-is, an existing regular file elsewhere is
// copied in, and anything else (a directory path included) is written
// verbatim as a new file's textual content.
func (r *Resolver) NormalizeAndStage(values []string, workDir string) ([]string, error) {
	staged := make([]string, 0, len(values))
	for i, v := range values {
		if isUnderDir(v, workDir) {
			staged = append(staged, v)
			continue
		}

		if info, err := os.Stat(v); err == nil && !info.IsDir() {
			dst := filepath.Join(workDir, filepath.Base(v))
			if err := copyFile(v, dst); err != nil {
				return nil, err
			}
			staged = append(staged, dst)
			continue
		}

		dst := filepath.Join(workDir, fmt.Sprintf(".input.%d", i))
		if err := os.WriteFile(dst, []byte(v), domain.FilePerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to stage literal input value"), "path", dst)
		}
		staged = append(staged, dst)
	}
	return staged, nil
}

// ExpandNames computes the destination basenames for staged against pattern,
// per the §4.3 expansion table. The length of the result always matches len(staged).
func (r *Resolver) ExpandNames(pattern string, staged []string) ([]string, error) {
	n := len(staged)
	names := make([]string, n)

	switch {
	case pattern == "" || pattern == "*":
		for i, s := range staged {
			names[i] = filepath.Base(s)
		}
	case strings.HasSuffix(pattern, "/*"):
		dir := strings.TrimSuffix(pattern, "/*")
		for i, s := range staged {
			names[i] = filepath.Join(dir, filepath.Base(s))
		}
	case strings.Contains(pattern, "???"):
		if n == 1 {
			return nil, zerr.With(zerr.New("index pattern requires more than one value"), "pattern", pattern)
		}
		for i := range staged {
			names[i] = expandRunPattern(pattern, "?", zeroPadded(i+1, countRun(pattern, '?')))
		}
	case strings.Contains(pattern, "*"):
		if n == 1 {
			names[0] = strings.Replace(pattern, "*", "", 1)
		} else {
			for i := range staged {
				names[i] = strings.Replace(pattern, "*", strconv.Itoa(i+1), 1)
			}
		}
	default:
		if n == 1 {
			names[0] = pattern
		} else {
			for i := range staged {
				names[i] = strings.Replace(pattern+"*", "*", strconv.Itoa(i+1), 1)
			}
		}
	}
	return names, nil
}

func isUnderDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // src is a resolved input path
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open input for staging"), "path", src)
	}
	defer in.Close() //nolint:errcheck // best-effort close

	out, err := os.Create(dst) //nolint:gosec // dst is derived from workDir
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create staged input"), "path", dst)
	}
	defer out.Close() //nolint:errcheck // best-effort close

	if _, err := io.Copy(out, in); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to copy input content"), "path", dst)
	}
	return nil
}

func countRun(pattern string, r byte) int {
	count, best := 0, 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == r {
			count++
			if count > best {
				best = count
			}
		} else {
			count = 0
		}
	}
	return best
}

func expandRunPattern(pattern string, run string, replacement string) string {
	idx := strings.Index(pattern, strings.Repeat(run, countRun(pattern, run[0])))
	if idx < 0 {
		return pattern
	}
	width := countRun(pattern, run[0])
	return pattern[:idx] + replacement + pattern[idx+width:]
}

func zeroPadded(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
