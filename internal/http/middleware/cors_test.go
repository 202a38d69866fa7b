package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSAllowsFrontendOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		origin  string
		origins []string
		allowed bool
	}{
		{"http://localhost:3000", nil, true},
		{"http://127.0.0.1:3000", nil, true},
		{"http://evil.example", nil, false},
		{"https://app.example.com", []string{"https://app.example.com"}, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.origin, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tc.origins))
			r.POST("/explain", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodOptions, "/explain", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tc.allowed && got != tc.origin {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, tc.origin)
			}
			if !tc.allowed && got != "" {
				t.Fatalf("origin should be rejected: got=%q", got)
			}
		})
	}
}
