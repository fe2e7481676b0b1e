package v1

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"certificate-issuer/internal/certificates"
	"certificate-issuer/internal/config"
	"certificate-issuer/pkg/pdf"
	"certificate-issuer/pkg/storage"
)

// CertificatesAPI holds the certificates API dependencies
type CertificatesAPI struct {
	Handler       *certificates.Handler
	LambdaHandler *certificates.LambdaHandler
	Service       certificates.Service
	Repository    certificates.Repository
}

// Clients are the AWS clients the API depends on
type Clients struct {
	DynamoDB certificates.DynamoDBAPI
	S3       storage.S3API
	SNS      certificates.SNSAPI
}

// NewClients builds AWS clients once per process
func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	awsCfg, err := cfg.AWS.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Clients{
		DynamoDB: dynamodb.NewFromConfig(awsCfg),
		S3: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWS.UsePathStyle()
		}),
		SNS: sns.NewFromConfig(awsCfg),
	}, nil
}

// SetupCertificatesAPI sets up the certificates API with all dependencies
func SetupCertificatesAPI(cfg *config.Config, clients *Clients, generator pdf.Generator, logger *zap.Logger) *CertificatesAPI {
	repository := certificates.NewRepository(clients.DynamoDB, cfg.Storage.Table)

	renderer := certificates.NewTemplateRenderer(cfg.Template.Dir)
	pdfService := certificates.NewPDFService(generator, cfg.OfflinePDFPath(), logger)
	storageProvider := certificates.NewStorageProvider(storage.NewS3Client(clients.S3), cfg.Storage.Bucket)
	notifier := certificates.NewNotifier(clients.SNS, cfg.Notifications.TopicARN)

	service := certificates.NewService(repository, renderer, pdfService, storageProvider, notifier, logger)

	return &CertificatesAPI{
		Handler:       certificates.NewHandler(service, logger),
		LambdaHandler: certificates.NewLambdaHandler(service, logger),
		Service:       service,
		Repository:    repository,
	}
}

// RegisterCertificatesRoutes registers the certificates routes on the router group
func RegisterCertificatesRoutes(router *gin.RouterGroup, api *CertificatesAPI) {
	api.Handler.RegisterRoutes(router)
}

// NewGenerator returns the headless-browser PDF generator for cfg
func NewGenerator(cfg *config.Config) pdf.Generator {
	return pdf.NewGenerator(pdf.Options{
		BrowserBin: cfg.Render.BrowserBin,
		NoSandbox:  cfg.Render.NoSandbox,
	})
}
