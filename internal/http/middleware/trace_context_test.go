package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/askroom-backend/internal/platform/ctxutil"
)

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())

	var got *ctxutil.TraceData
	r.GET("/probe", func(c *gin.Context) {
		got = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if got == nil {
		t.Fatal("trace data missing from request context")
	}
	if got.TraceID == "" || got.RequestID == "" {
		t.Fatalf("ids must be generated when absent: %+v", got)
	}
	if w.Header().Get("X-Trace-Id") != got.TraceID {
		t.Fatalf("trace header %q does not match context %q", w.Header().Get("X-Trace-Id"), got.TraceID)
	}
	if w.Header().Get("X-Request-Id") != got.RequestID {
		t.Fatalf("request header %q does not match context %q", w.Header().Get("X-Request-Id"), got.RequestID)
	}
}

func TestAttachTraceContextHonorsInboundHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	traceID := uuid.NewString()
	reqID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Trace-Id", traceID)
	req.Header.Set("X-Request-Id", reqID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Trace-Id") != traceID {
		t.Fatalf("inbound trace id not propagated: %q", w.Header().Get("X-Trace-Id"))
	}
	if w.Header().Get("X-Request-Id") != reqID {
		t.Fatalf("inbound request id not propagated: %q", w.Header().Get("X-Request-Id"))
	}
}
