package handlers

import (
	"net/http"

	"github.com/GunarsK-portfolio/review-service/internal/middleware"
	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/policy"
	"github.com/GunarsK-portfolio/review-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// UserHandler serves user administration and the caller's own profile.
type UserHandler struct {
	users    service.UserService
	pageSize int
	log      hclog.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users service.UserService, pageSize int, log hclog.Logger) *UserHandler {
	return &UserHandler{users: users, pageSize: pageSize, log: log}
}

// UserRequest is the payload for user writes. Role is honoured only for
// admins.
type UserRequest struct {
	Username  *string      `json:"username" binding:"omitempty,max=150,username"`
	Email     *string      `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string      `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string      `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

func (r UserRequest) input() service.UserInput {
	return service.UserInput{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Username contains"
// @Success 200 {object} PageResponse[UserView]
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	if !authorize(c, policy.ResourceUsers, nil) {
		return
	}
	page, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}

	users, total, err := h.users.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, mapViews(users, userView), total, page))
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UserRequest true "User"
// @Success 201 {object} UserView
// @Failure 400 {object} ErrorResponse
// @Router /users/ [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	if !authorize(c, policy.ResourceUsers, nil) {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, userView(*user))
}

// GetUser godoc
// @Summary Get a user, or the caller's own profile at /users/me/
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param username path string true "Username or me"
// @Success 200 {object} UserView
// @Router /users/{username}/ [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	if isMe(c) {
		if !authorize(c, policy.ResourceMe, nil) {
			return
		}
		c.JSON(http.StatusOK, userView(*middleware.CurrentUser(c)))
		return
	}

	if !authorize(c, policy.ResourceUsers, nil) {
		return
	}
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, userView(*user))
}

// UpdateUser godoc
// @Summary Partially update a user. At /users/me/ non-admins cannot change their role.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param username path string true "Username or me"
// @Param request body UserRequest true "Fields to change"
// @Success 200 {object} UserView
// @Router /users/{username}/ [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var (
		user  *models.User
		shape policy.UserShape
	)

	if isMe(c) {
		if !authorize(c, policy.ResourceMe, nil) {
			return
		}
		user = middleware.CurrentUser(c)
		shape = policy.SelectUserShape(policy.ActionUpdate, middleware.CurrentActor(c))
	} else {
		if !authorize(c, policy.ResourceUsers, nil) {
			return
		}
		found, err := h.users.Get(c.Request.Context(), c.Param("username"))
		if err != nil {
			respondServiceError(c, h.log, err)
			return
		}
		user = found
		shape = policy.UserShapeAdmin
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.users.Update(c.Request.Context(), user, req.input(), shape)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, userView(*updated))
}

// DeleteUser godoc
// @Summary Delete a user with everything they authored
// @Tags users
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 204
// @Failure 405 {object} ErrorResponse
// @Router /users/{username}/ [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if isMe(c) {
		if !authorize(c, policy.ResourceMe, nil) {
			return
		}
		c.Header("Allow", "GET, PATCH")
		RespondError(c, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !authorize(c, policy.ResourceUsers, nil) {
		return
	}
	if err := h.users.Delete(c.Request.Context(), c.Param("username")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// isMe reports whether the path addresses the caller's own profile. The
// name is reserved at signup, so no stored user can collide with it.
func isMe(c *gin.Context) bool {
	return c.Param("username") == models.ReservedUsername
}
