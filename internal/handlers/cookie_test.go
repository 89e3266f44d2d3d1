package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSetAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		cookieConfig CookieConfig
		wantSecure   bool
		wantSameSite http.SameSite
		wantDomain   string // Go http strips leading dot from domain per RFC 6265
		wantPath     string
	}{
		{
			name: "development config",
			cookieConfig: CookieConfig{
				Secure:   false,
				SameSite: http.SameSiteLaxMode,
			},
			wantSecure:   false,
			wantSameSite: http.SameSiteLaxMode,
			wantDomain:   "",
			wantPath:     "/",
		},
		{
			name: "production config",
			cookieConfig: CookieConfig{
				Domain:   ".reviews.example.com",
				Secure:   true,
				SameSite: http.SameSiteStrictMode,
				Path:     "/v1",
			},
			wantSecure:   true,
			wantSameSite: http.SameSiteStrictMode,
			wantDomain:   "reviews.example.com",
			wantPath:     "/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			helper := NewCookieHelper(tt.cookieConfig)
			helper.SetAccessToken(c, "access123", 15*time.Minute)

			cookies := w.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("expected 1 cookie, got %d", len(cookies))
			}

			cookie := cookies[0]
			if cookie.Name != "access_token" {
				t.Errorf("cookie name = %s, want access_token", cookie.Name)
			}
			if cookie.Value != "access123" {
				t.Errorf("access_token value = %s, want access123", cookie.Value)
			}
			if cookie.MaxAge != 900 {
				t.Errorf("access_token MaxAge = %d, want 900", cookie.MaxAge)
			}
			if !cookie.HttpOnly {
				t.Error("access_token should be HttpOnly")
			}
			if cookie.Secure != tt.wantSecure {
				t.Errorf("access_token Secure = %v, want %v", cookie.Secure, tt.wantSecure)
			}
			if cookie.SameSite != tt.wantSameSite {
				t.Errorf("access_token SameSite = %v, want %v", cookie.SameSite, tt.wantSameSite)
			}
			if cookie.Path != tt.wantPath {
				t.Errorf("access_token Path = %s, want %s", cookie.Path, tt.wantPath)
			}
			if cookie.Domain != tt.wantDomain {
				t.Errorf("access_token Domain = %s, want %s", cookie.Domain, tt.wantDomain)
			}
		})
	}
}

func TestClearAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	helper := NewCookieHelper(CookieConfig{})
	helper.ClearAccessToken(c)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("Cookie %s should have MaxAge=-1, got %d", cookies[0].Name, cookies[0].MaxAge)
	}
}
