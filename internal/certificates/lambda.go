package certificates

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// LambdaHandler adapts Service to API Gateway proxy invocations.
type LambdaHandler struct {
	service Service
	logger  *zap.Logger
}

func NewLambdaHandler(service Service, logger *zap.Logger) *LambdaHandler {
	return &LambdaHandler{
		service: service,
		logger:  logger,
	}
}

// Handle issues a certificate from the event body. Failures are returned as
// shaped responses, never as a Go error, so API Gateway sees the real status.
func (h *LambdaHandler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx = WithRequestID(ctx, event.RequestContext.RequestID)

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return h.failure(ctx, stepErr(StepParse, err)), nil
		}
		body = decoded
	}

	req, err := h.service.ParseRequest(body)
	if err != nil {
		return h.failure(ctx, err), nil
	}
	result, err := h.service.Issue(ctx, req)
	if err != nil {
		return h.failure(ctx, err), nil
	}
	out, err := result.ResponseBody()
	if err != nil {
		return h.failure(ctx, err), nil
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode: http.StatusCreated,
		Headers:    map[string]string{RequestIDHeader: RequestIDFromContext(ctx)},
		Body:       out,
	}
	if out != "" {
		resp.Headers["Content-Type"] = "application/json"
	}
	return resp, nil
}

func (h *LambdaHandler) failure(ctx context.Context, err error) events.APIGatewayProxyResponse {
	status, step := StatusFor(err)
	h.logger.Error("Certificate invocation failed",
		zap.String("request_id", RequestIDFromContext(ctx)),
		zap.String("step", string(step)),
		zap.Int("status", status),
		zap.Error(err))

	payload := map[string]string{"error": err.Error()}
	if step != "" {
		payload["step"] = string(step)
	}
	b, _ := json.Marshal(payload)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			RequestIDHeader: RequestIDFromContext(ctx),
		},
		Body: string(b),
	}
}
