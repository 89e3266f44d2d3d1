package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/GunarsK-portfolio/review-service/internal/middleware"
	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/policy"
	"github.com/GunarsK-portfolio/review-service/internal/service"
	"github.com/hashicorp/go-hclog"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation",
			err:        service.NewValidationError("slug", "slug is already taken"),
			wantStatus: http.StatusBadRequest,
			wantError:  "validation failed",
		},
		{
			name:       "wrapped validation",
			err:        fmt.Errorf("create: %w", service.NewValidationError("slug", "bad")),
			wantStatus: http.StatusBadRequest,
			wantError:  "validation failed",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("title 7 %w", service.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "title 7 not found",
		},
		{
			name:       "unexpected",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := createTestContext("GET", "/v1/titles/", nil)

			respondServiceError(c, hclog.NewNullLogger(), tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := decodeError(t, w).Error; got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
			if !c.IsAborted() {
				t.Error("expected context to be aborted")
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	owner := &models.User{ID: 1, Username: "owner", Role: models.RoleUser}
	other := &models.User{ID: 2, Username: "other", Role: models.RoleUser}
	moderator := &models.User{ID: 3, Username: "mod", Role: models.RoleModerator}
	ownerID := owner.ID

	tests := []struct {
		name       string
		user       *models.User
		method     string
		resource   policy.Resource
		ownerID    *int64
		wantOK     bool
		wantStatus int
	}{
		{"anonymous read", nil, "GET", policy.ResourceReview, nil, true, http.StatusOK},
		{"anonymous write", nil, "POST", policy.ResourceReview, nil, false, http.StatusUnauthorized},
		{"author edits", owner, "PATCH", policy.ResourceReview, &ownerID, true, http.StatusOK},
		{"stranger edits", other, "PATCH", policy.ResourceReview, &ownerID, false, http.StatusForbidden},
		{"moderator edits", moderator, "DELETE", policy.ResourceComment, &ownerID, true, http.StatusOK},
		{"user creates category", owner, "POST", policy.ResourceCategory, nil, false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := createTestContext(tt.method, "/v1/", nil)
			if tt.user != nil {
				middleware.SetUser(c, tt.user, false)
			}

			ok := authorize(c, tt.resource, tt.ownerID)

			if ok != tt.wantOK {
				t.Fatalf("authorize = %v, want %v", ok, tt.wantOK)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw    string
		wantID int64
		wantOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			w, c := createTestContext("GET", "/v1/titles/"+tt.raw+"/", nil)
			c.AddParam("title_id", tt.raw)

			id, ok := pathID(c, "title_id")

			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("pathID = (%d, %v), want (%d, %v)", id, ok, tt.wantID, tt.wantOK)
			}
			if !ok && w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
		})
	}
}
