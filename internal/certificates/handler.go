package certificates

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	certs := rg.Group("/certificates")
	{
		certs.POST("", h.Issue)
		certs.GET("/:id", h.Get)
		certs.GET("/:id/pdf", h.Download)
	}
}

// Issue handles POST /certificates
func (h *Handler) Issue(c *gin.Context) {
	ctx := WithRequestID(c.Request.Context(), c.GetHeader(RequestIDHeader))
	c.Header(RequestIDHeader, RequestIDFromContext(ctx))

	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, stepErr(StepParse, err))
		return
	}
	req, err := h.service.ParseRequest(body)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.service.Issue(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	out, err := result.ResponseBody()
	if err != nil {
		h.fail(c, err)
		return
	}
	if out == "" {
		c.Status(http.StatusCreated)
		return
	}
	c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(out))
}

// Get handles GET /certificates/:id
func (h *Handler) Get(c *gin.Context) {
	record, err := h.service.GetCertificate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Download handles GET /certificates/:id/pdf
func (h *Handler) Download(c *gin.Context) {
	id := c.Param("id")
	reader, err := h.service.DownloadCertificate(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, PDFContentType, reader, map[string]string{
		"Content-Disposition": `inline; filename="` + ObjectKey(id) + `"`,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, step := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Certificate request failed",
			zap.String("path", c.FullPath()),
			zap.String("step", string(step)),
			zap.Error(err))
	}
	resp := gin.H{"error": err.Error()}
	if step != "" {
		resp["step"] = step
	}
	c.JSON(status, resp)
}
