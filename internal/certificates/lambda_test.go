package certificates

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLambdaHandleNewCertificate(t *testing.T) {
	f := newServiceFixture(t, "")
	f.repo.On("FindByID", mock.Anything, "u1").Return([]CertificateRecord{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	h := NewLambdaHandler(f.service, zap.NewNop())

	event := events.APIGatewayProxyRequest{Body: `{"id":"u1","name":"Ana","grade":"A"}`}
	event.RequestContext.RequestID = "apigw-1"

	resp, err := h.Handle(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Equal(t, "apigw-1", resp.Headers[RequestIDHeader])
	assert.Equal(t, "apigw-1", f.notifier.events[0].RequestID)
}

func TestLambdaHandleExistingCertificate(t *testing.T) {
	f := newServiceFixture(t, "")
	f.repo.On("FindByID", mock.Anything, "u1").Return([]CertificateRecord{{ID: "u1", Name: "Ana", Grade: "A", CreatedAt: 3}}, nil)
	h := NewLambdaHandler(f.service, zap.NewNop())

	body := base64.StdEncoding.EncodeToString([]byte(`{"id":"u1","name":"Ana","grade":"B"}`))
	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{Body: body, IsBase64Encoded: true})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"u1","name":"Ana","grade":"A","created_at":3}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
}

func TestLambdaHandleFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *serviceFixture)
		body   string
		status int
		step   Step
	}{
		{
			name:   "malformed body",
			setup:  func(f *serviceFixture) {},
			body:   `{"id":`,
			status: http.StatusBadRequest,
			step:   StepParse,
		},
		{
			name: "store unavailable",
			setup: func(f *serviceFixture) {
				f.repo.On("FindByID", mock.Anything, "u1").Return(nil, assert.AnError)
			},
			body:   `{"id":"u1","name":"Ana","grade":"A"}`,
			status: http.StatusBadGateway,
			step:   StepQuery,
		},
		{
			name: "render failure",
			setup: func(f *serviceFixture) {
				f.generator.err = assert.AnError
				f.repo.On("FindByID", mock.Anything, "u1").Return([]CertificateRecord{}, nil)
				f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			body:   `{"id":"u1","name":"Ana","grade":"A"}`,
			status: http.StatusInternalServerError,
			step:   StepRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, "")
			tt.setup(f)
			h := NewLambdaHandler(f.service, zap.NewNop())

			resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{Body: tt.body})

			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, resp.Body, `"step":"`+string(tt.step)+`"`)
			assert.Zero(t, f.s3.uploads)
		})
	}
}
