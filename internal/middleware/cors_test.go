package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{
			name:       "allowed origin",
			method:     http.MethodGet,
			origin:     "https://reviews.example.com",
			wantStatus: http.StatusOK,
			wantAllow:  "https://reviews.example.com",
		},
		{
			name:       "preflight from allowed origin",
			method:     http.MethodOptions,
			origin:     "https://reviews.example.com",
			wantStatus: http.StatusNoContent,
			wantAllow:  "https://reviews.example.com",
		},
		{
			name:       "unknown origin",
			method:     http.MethodGet,
			origin:     "https://evil.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "same-origin request",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS([]string{"https://reviews.example.com/"}))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}
