package pdf

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintOptions(t *testing.T) {
	opts := PrintOptions()

	assert.True(t, opts.Landscape)
	assert.True(t, opts.PrintBackground)
	require.NotNil(t, opts.PaperWidth)
	require.NotNil(t, opts.PaperHeight)
	assert.InDelta(t, 8.27, *opts.PaperWidth, 0.001)
	assert.InDelta(t, 11.7, *opts.PaperHeight, 0.001)
	assert.Zero(t, *opts.MarginTop)
}

// Needs a local Chromium; run with ROD_E2E=1.
func TestGenerateRendersPDF(t *testing.T) {
	if os.Getenv("ROD_E2E") == "" {
		t.Skip("ROD_E2E not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	g := NewGenerator(Options{BrowserBin: os.Getenv("CHROME_BIN"), NoSandbox: true})
	out, err := g.Generate(ctx, "<html><body style=\"background:#8257e5\"><h1>Ana</h1></body></html>")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
