package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// A4 in inches, the unit Chrome's print API expects.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.7
)

type Generator interface {
	// Generate prints html to a PDF document.
	Generate(ctx context.Context, html string) ([]byte, error)
}

// Options configures the headless browser.
type Options struct {
	BrowserBin string // empty uses rod's managed Chromium
	NoSandbox  bool
}

type rodGenerator struct {
	opts Options
}

// NewGenerator returns a Generator that launches a fresh headless browser
// for every document and closes it before returning.
func NewGenerator(opts Options) Generator {
	return &rodGenerator{opts: opts}
}

func (g *rodGenerator) Generate(ctx context.Context, html string) ([]byte, error) {
	l := launcher.New().Headless(true).NoSandbox(g.opts.NoSandbox)
	if g.opts.BrowserBin != "" {
		l = l.Bin(g.opts.BrowserBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	stream, err := page.PDF(PrintOptions())
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	defer stream.Close()

	out, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return out, nil
}

// PrintOptions is A4, landscape, with backgrounds and no margins.
func PrintOptions() *proto.PagePrintToPDF {
	zero := 0.0
	width, height := a4WidthInches, a4HeightInches
	return &proto.PagePrintToPDF{
		Landscape:       true,
		PrintBackground: true,
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &zero,
		MarginBottom:    &zero,
		MarginLeft:      &zero,
		MarginRight:     &zero,
	}
}
