package certificates

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"certificate-issuer/pkg/pdf"
)

type PDFService struct {
	generator pdf.Generator
	// copyPath, when set, receives a copy of every rendered PDF (offline mode).
	copyPath string
	logger   *zap.Logger
}

func NewPDFService(generator pdf.Generator, copyPath string, logger *zap.Logger) *PDFService {
	return &PDFService{
		generator: generator,
		copyPath:  copyPath,
		logger:    logger,
	}
}

func (s *PDFService) Render(ctx context.Context, html string) ([]byte, error) {
	out, err := s.generator.Generate(ctx, html)
	if err != nil {
		return nil, err
	}
	if s.copyPath != "" {
		if err := os.WriteFile(s.copyPath, out, 0o644); err != nil {
			return nil, fmt.Errorf("write offline copy: %w", err)
		}
		s.logger.Debug("Wrote offline certificate copy", zap.String("path", s.copyPath))
	}
	return out, nil
}
