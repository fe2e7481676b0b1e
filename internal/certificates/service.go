package certificates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"certificate-issuer/pkg/storage"
)

type Service interface {
	// ParseRequest decodes and validates a raw request body.
	ParseRequest(body []byte) (CertificateRequest, error)
	// Issue records the certificate if its ID is new, renders the PDF and
	// stores it under ObjectKey(req.ID).
	Issue(ctx context.Context, req CertificateRequest) (*IssueResult, error)

	GetCertificate(ctx context.Context, id string) (*CertificateRecord, error)
	DownloadCertificate(ctx context.Context, id string) (io.ReadCloser, error)
}

type Option func(*certificateService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *certificateService) {
		s.now = now
	}
}

type certificateService struct {
	repo      Repository
	templates *TemplateRenderer
	pdf       *PDFService
	storage   *StorageProvider
	notifier  Notifier
	validate  *validator.Validate
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, templates *TemplateRenderer, pdf *PDFService, storage *StorageProvider, notifier Notifier, logger *zap.Logger, opts ...Option) Service {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	s := &certificateService{
		repo:      repo,
		templates: templates,
		pdf:       pdf,
		storage:   storage,
		notifier:  notifier,
		validate:  validate,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *certificateService) ParseRequest(body []byte) (CertificateRequest, error) {
	var req CertificateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return CertificateRequest{}, stepErr(StepParse, fmt.Errorf("decode body: %w", err))
	}
	if err := s.validateRequest(req); err != nil {
		return CertificateRequest{}, err
	}
	return req, nil
}

func (s *certificateService) validateRequest(req CertificateRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return stepErr(StepParse, errors.New(formatValidationErrors(err)))
	}
	return nil
}

func (s *certificateService) Issue(ctx context.Context, req CertificateRequest) (*IssueResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	requestID := RequestIDFromContext(ctx)
	log := s.logger.With(
		zap.String("certificate_id", req.ID),
		zap.String("request_id", requestID))

	existing, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		log.Error("Failed to query certificate", zap.Error(err))
		return nil, stepErr(StepQuery, err)
	}

	result := &IssueResult{}
	if len(existing) > 0 {
		record := existing[0]
		result.Existing = &record
		log.Info("Certificate already recorded, reusing",
			zap.Int64("created_at", record.CreatedAt))
	} else {
		// Not guarded against a concurrent Issue for the same ID.
		if err := s.repo.Create(ctx, NewRecord(req, s.now())); err != nil {
			log.Error("Failed to create certificate record", zap.Error(err))
			return nil, stepErr(StepWrite, err)
		}
		result.Created = true
		log.Info("Certificate record created",
			zap.String("name", req.Name),
			zap.String("grade", req.Grade))
	}

	tc, err := s.templates.LoadContext(req, s.now())
	if err != nil {
		log.Error("Failed to load certificate assets", zap.Error(err))
		return nil, stepErr(StepTemplate, err)
	}
	html, err := s.templates.Render(tc)
	if err != nil {
		log.Error("Failed to render certificate template", zap.Error(err))
		return nil, stepErr(StepTemplate, err)
	}

	pdf, err := s.pdf.Render(ctx, html)
	if err != nil {
		log.Error("Failed to render certificate PDF", zap.Error(err))
		return nil, stepErr(StepRender, err)
	}

	key, err := s.storage.UploadPDF(ctx, req.ID, pdf)
	if err != nil {
		log.Error("Failed to upload certificate PDF",
			zap.Bool("record_created", result.Created),
			zap.Error(err))
		return nil, stepErr(StepUpload, err)
	}
	result.Key = key
	result.Size = len(pdf)

	event := IssuedEvent{
		Type:      EventCertificateIssued,
		ID:        req.ID,
		Bucket:    s.storage.Bucket(),
		Key:       key,
		Created:   result.Created,
		IssuedAt:  s.now().UTC(),
		RequestID: requestID,
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish issued event", zap.Error(err))
	}

	log.Info("Certificate issued",
		zap.String("key", key),
		zap.Int("size", result.Size),
		zap.Bool("created", result.Created))
	return result, nil
}

func (s *certificateService) GetCertificate(ctx context.Context, id string) (*CertificateRecord, error) {
	records, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, stepErr(StepQuery, err)
	}
	if len(records) == 0 {
		return nil, ErrCertificateNotFound
	}
	return &records[0], nil
}

func (s *certificateService) DownloadCertificate(ctx context.Context, id string) (io.ReadCloser, error) {
	body, err := s.storage.DownloadPDF(ctx, id)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrCertificateNotFound
	}
	if err != nil {
		return nil, stepErr(StepDownload, err)
	}
	return body, nil
}

// ResponseBody is the JSON of the record found before this call, or empty
// when the ID had no prior record.
func (r *IssueResult) ResponseBody() (string, error) {
	if r.Existing == nil {
		return "", nil
	}
	b, err := json.Marshal(r.Existing)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
