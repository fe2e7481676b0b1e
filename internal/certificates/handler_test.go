package certificates

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(f *serviceFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(f.service, zap.NewNop()).RegisterRoutes(router.Group(""))
	return router
}

func TestHandlerIssueNewCertificate(t *testing.T) {
	f := newServiceFixture(t, "")
	f.repo.On("FindByID", mock.Anything, "u1").Return([]CertificateRecord{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	router := newTestRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/certificates", strings.NewReader(`{"id":"u1","name":"Ana","grade":"A"}`))
	req.Header.Set(RequestIDHeader, "req-42")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Contains(t, f.s3.objects, testBucket+"/u1.pdf")
}

func TestHandlerIssueExistingCertificate(t *testing.T) {
	f := newServiceFixture(t, "")
	existing := CertificateRecord{ID: "u1", Name: "Ana", Grade: "A", CreatedAt: 99}
	f.repo.On("FindByID", mock.Anything, "u1").Return([]CertificateRecord{existing}, nil)
	router := newTestRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/certificates", strings.NewReader(`{"id":"u1","name":"Other","grade":"F"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"u1","name":"Ana","grade":"A","created_at":99}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandlerIssueMalformedBody(t *testing.T) {
	f := newServiceFixture(t, "")
	router := newTestRouter(f)

	for _, body := range []string{`not json`, `{"id":"u1"}`, `{}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/certificates", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(StepParse), resp["step"])
		assert.NotEmpty(t, resp["error"])
	}

	f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	assert.Zero(t, f.s3.uploads)
}

func TestHandlerIssueUploadFailure(t *testing.T) {
	f := newServiceFixture(t, "")
	f.s3.uploadErr = assert.AnError
	f.repo.On("FindByID", mock.Anything, "u1").Return([]CertificateRecord{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	router := newTestRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/certificates", strings.NewReader(`{"id":"u1","name":"Ana","grade":"A"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"upload"`)
}

func TestHandlerGet(t *testing.T) {
	f := newServiceFixture(t, "")
	f.repo.On("FindByID", mock.Anything, "u1").Return([]CertificateRecord{{ID: "u1", Name: "Ana", Grade: "A", CreatedAt: 5}}, nil)
	f.repo.On("FindByID", mock.Anything, "nope").Return([]CertificateRecord{}, nil)
	router := newTestRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/certificates/u1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","name":"Ana","grade":"A","created_at":5}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/certificates/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerDownload(t *testing.T) {
	f := newServiceFixture(t, "")
	require.NoError(t, f.s3.Upload(context.Background(), testBucket, "u1.pdf", bytes.NewReader(testPDF), PDFContentType))
	router := newTestRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/certificates/u1/pdf", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, PDFContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, testPDF, w.Body.Bytes())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/certificates/u2/pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
