package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/GunarsK-portfolio/review-service/internal/middleware"
	"github.com/GunarsK-portfolio/review-service/internal/policy"
	"github.com/GunarsK-portfolio/review-service/internal/service"
	"github.com/GunarsK-portfolio/review-service/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// RespondError writes a plain error body.
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to its status code. Unexpected
// errors are logged and reported as 500 without detail.
func respondServiceError(c *gin.Context, log hclog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	default:
		log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// respondBindError reports a malformed or invalid request body.
func respondBindError(c *gin.Context, err error) {
	if fields, ok := validation.FieldErrors(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
		return
	}
	RespondError(c, http.StatusBadRequest, "malformed request body")
}

// authorize applies the access policy and writes the denial when the request
// is not allowed. ownerID is nil for collection-level checks.
func authorize(c *gin.Context, resource policy.Resource, ownerID *int64) bool {
	decision := policy.Decide(policy.Request{
		Resource: resource,
		Method:   c.Request.Method,
		Actor:    middleware.CurrentActor(c),
		OwnerID:  ownerID,
	})

	switch decision {
	case policy.Allow:
		return true
	case policy.DenyUnauthenticated:
		RespondError(c, http.StatusUnauthorized, "authentication credentials were not provided")
	default:
		RespondError(c, http.StatusForbidden, "you do not have permission to perform this action")
	}
	return false
}

// pathID parses a positive integer path parameter, replying 404 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}
