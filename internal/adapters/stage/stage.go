// Package stage renders the shell snippets that link staged inputs into a
// task's working directory and copy declared outputs back out, per spec.md
// §6: three copy strategies (copy/move/rsync) plus a symlink stage script
// and a tolerant unstage script. Grounded in the shell-quoting conventions
// of internal/adapters/executor/local and internal/adapters/executor/grid.
package stage

import "strings"

// CopyMode selects how unstaged output files are copied to their published
// destination.
type CopyMode string

const (
	// CopyModeCopy uses "cp -fR".
	CopyModeCopy CopyMode = "copy"
	// CopyModeMove uses "mv -f".
	CopyModeMove CopyMode = "move"
	// CopyModeRsync uses "rsync -rRl".
	CopyModeRsync CopyMode = "rsync"
)

// File is one (source, target) pair staged into or unstaged out of a task's
// working directory.
type File struct {
	Source string
	Target string
}

// Quote backslash-escapes single quotes and whitespace, the shell-quoting
// convention shared by the local and grid executors.
func Quote(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\'', ' ', '\t', '\n':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RenderStage emits, for each file, "rm -f <target>" followed by
// "ln -s <source> <target>", so a re-run of a partially staged task starts
// from a clean symlink.
func RenderStage(files []File) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString("rm -f " + Quote(f.Target) + "\n")
		b.WriteString("ln -s " + Quote(f.Source) + " " + Quote(f.Target) + "\n")
	}
	return b.String()
}

// RenderUnstage copies each output file to its target directory using mode,
// prefixed by "mkdir -p <targetDir>" and suffixed with "|| true" so a missing
// output in a failure tail does not abort the rest of the unstage script.
func RenderUnstage(files []File, mode CopyMode) string {
	var b strings.Builder
	for _, f := range files {
		dir := parentDir(f.Target)
		b.WriteString("mkdir -p " + Quote(dir) + "\n")
		b.WriteString(copyCommand(f, mode) + " || true\n")
	}
	return b.String()
}

func copyCommand(f File, mode CopyMode) string {
	src, dst := Quote(f.Source), Quote(f.Target)
	switch mode {
	case CopyModeMove:
		return "mv -f " + src + " " + dst
	case CopyModeRsync:
		return "rsync -rRl " + src + " " + dst
	default: // CopyModeCopy
		return "cp -fR " + src + " " + dst
	}
}

func parentDir(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return "."
	}
	return path[:i]
}
