package stage_test

import (
	"testing"

	"github.com/shihabhasan/nextflow/internal/adapters/stage"
	"github.com/stretchr/testify/assert"
)

func TestRenderStage(t *testing.T) {
	got := stage.RenderStage([]stage.File{
		{Source: "/home/data/file 3", Target: "seq 3.fa"},
	})
	assert.Equal(t, "rm -f seq\\ 3.fa\nln -s /home/data/file\\ 3 seq\\ 3.fa\n", got)
}

func TestRenderUnstage(t *testing.T) {
	got := stage.RenderUnstage([]stage.File{
		{Source: "result.txt", Target: "out/result.txt"},
	}, stage.CopyModeCopy)
	assert.Equal(t, "mkdir -p out\ncp -fR result.txt out/result.txt || true\n", got)
}

func TestRenderUnstageModes(t *testing.T) {
	f := []stage.File{{Source: "a", Target: "b/a"}}
	assert.Contains(t, stage.RenderUnstage(f, stage.CopyModeMove), "mv -f a b/a")
	assert.Contains(t, stage.RenderUnstage(f, stage.CopyModeRsync), "rsync -rRl a b/a")
}

func TestQuoteEscapesWhitespaceAndQuotes(t *testing.T) {
	assert.Equal(t, `a\'b\ c`, stage.Quote("a'b c"))
}
