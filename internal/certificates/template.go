package certificates

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aymerick/raymond"
)

const (
	TemplateFile = "certificate.hbs"
	MedalFile    = "selo.png"
)

// TemplateRenderer renders the certificate HTML from the assets in dir.
// Assets are read from disk on every call.
type TemplateRenderer struct {
	dir string
}

func NewTemplateRenderer(dir string) *TemplateRenderer {
	return &TemplateRenderer{dir: dir}
}

// LoadContext builds the template variables for req, dated now.
func (r *TemplateRenderer) LoadContext(req CertificateRequest, now time.Time) (TemplateContext, error) {
	medal, err := os.ReadFile(filepath.Join(r.dir, MedalFile))
	if err != nil {
		return TemplateContext{}, fmt.Errorf("read medal: %w", err)
	}
	return TemplateContext{
		ID:    req.ID,
		Name:  req.Name,
		Grade: req.Grade,
		Date:  now.Format(DateLayout),
		Medal: base64.StdEncoding.EncodeToString(medal),
	}, nil
}

func (r *TemplateRenderer) Render(tc TemplateContext) (string, error) {
	source, err := os.ReadFile(filepath.Join(r.dir, TemplateFile))
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	html, err := raymond.Render(string(source), tc.values())
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return html, nil
}
