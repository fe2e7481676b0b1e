package certificates

import (
	"bytes"
	"context"
	"io"

	"certificate-issuer/pkg/storage"
)

type StorageProvider struct {
	s3     storage.S3Client
	bucket string
}

func NewStorageProvider(s3 storage.S3Client, bucket string) *StorageProvider {
	return &StorageProvider{
		s3:     s3,
		bucket: bucket,
	}
}

func (p *StorageProvider) Bucket() string {
	return p.bucket
}

// UploadPDF stores pdf under ObjectKey(id), replacing any previous object.
func (p *StorageProvider) UploadPDF(ctx context.Context, id string, pdf []byte) (string, error) {
	key := ObjectKey(id)
	if err := p.s3.Upload(ctx, p.bucket, key, bytes.NewReader(pdf), PDFContentType); err != nil {
		return "", err
	}
	return key, nil
}

func (p *StorageProvider) DownloadPDF(ctx context.Context, id string) (io.ReadCloser, error) {
	return p.s3.Download(ctx, p.bucket, ObjectKey(id))
}
