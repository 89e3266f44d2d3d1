package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		wantLevel string
		wantMsg   string
	}{
		{"success", http.StatusOK, "info", "request"},
		{"server error", http.StatusInternalServerError, "error", "request failed"},
		{"client error", http.StatusNotFound, "debug", "request rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug, JSONFormat: true})

			r := gin.New()
			r.Use(RequestLogger(log))
			r.GET("/v1/titles/", func(c *gin.Context) {
				c.Status(tt.status)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/titles/?limit=5", nil))

			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
				t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
			}
			if entry["@level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["@level"], tt.wantLevel)
			}
			if entry["@message"] != tt.wantMsg {
				t.Errorf("message = %v, want %s", entry["@message"], tt.wantMsg)
			}
			if entry["path"] != "/v1/titles/" {
				t.Errorf("path = %v, want /v1/titles/", entry["path"])
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", entry["status"], tt.status)
			}
		})
	}
}
