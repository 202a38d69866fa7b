package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/code-explainer-backend/internal/platform/ctxutil"
)

const (
	HeaderTraceID   = "X-Trace-Id"
	HeaderRequestID = "X-Request-Id"
)

// AttachTraceContext gives every request a request id and a trace id, taken
// from headers, the active span, or freshly generated, in that order.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}

		span := trace.SpanFromContext(c.Request.Context())
		traceID := strings.TrimSpace(c.GetHeader(HeaderTraceID))
		if traceID == "" && span.SpanContext().HasTraceID() {
			traceID = span.SpanContext().TraceID().String()
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}
		span.SetAttributes(attribute.String("request.id", reqID))

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", reqID)
		c.Writer.Header().Set(HeaderTraceID, traceID)
		c.Writer.Header().Set(HeaderRequestID, reqID)
		c.Next()
	}
}
