package certificates

import (
	"time"
)

// DateLayout is the DD/MM/YYYY layout printed on the certificate.
const DateLayout = "02/01/2006"

const PDFContentType = "application/pdf"

// CertificateRecord is the persisted row for one issued certificate.
// It is written once per ID and never updated.
type CertificateRecord struct {
	ID        string `json:"id" dynamodbav:"id"`
	Name      string `json:"name" dynamodbav:"name"`
	Grade     string `json:"grade" dynamodbav:"grade"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"` // unix milliseconds
}

// CertificateRequest is the decoded body of an issue request.
type CertificateRequest struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Grade string `json:"grade" validate:"required"`
}

// NewRecord maps a request into a record stamped at now.
func NewRecord(req CertificateRequest, now time.Time) *CertificateRecord {
	return &CertificateRecord{
		ID:        req.ID,
		Name:      req.Name,
		Grade:     req.Grade,
		CreatedAt: now.UnixMilli(),
	}
}

// TemplateContext holds the variables substituted into the certificate template.
type TemplateContext struct {
	ID    string
	Name  string
	Grade string
	Date  string
	Medal string // base64 PNG
}

func (c TemplateContext) values() map[string]interface{} {
	return map[string]interface{}{
		"id":    c.ID,
		"name":  c.Name,
		"grade": c.Grade,
		"date":  c.Date,
		"medal": c.Medal,
	}
}

// ObjectKey returns the storage key of the certificate PDF for id.
func ObjectKey(id string) string {
	return id + ".pdf"
}

// IssueResult describes the outcome of one Issue call.
type IssueResult struct {
	// Existing is the first record found before any write, nil when the ID was new.
	Existing *CertificateRecord
	Created  bool
	Key      string
	Size     int
}

// IssuedEvent is published after a certificate PDF is stored.
type IssuedEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Created   bool      `json:"created"`
	IssuedAt  time.Time `json:"issued_at"`
	RequestID string    `json:"request_id,omitempty"`
}
