package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/companion/auth/authctx"
	apperrors "github.com/kbukum/companion/errors"
	"github.com/kbukum/companion/server"
	"github.com/kbukum/companion/validation"
)

// Handler exposes the account Service over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the account endpoints on rg. Every route except
// signup and login runs behind gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)

	protected := rg.Group("", gate)
	protected.GET("/:userId", h.Get)
	protected.PUT("/:userId", h.Update)
	protected.DELETE("/:userId", h.Delete)
}

// Signup handles POST /signup.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bind(c, &req) {
		return
	}
	req.normalize()
	if err := validation.Validate(&req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	res, err := h.svc.Signup(c.Request.Context(), SignupInput{
		Username:    req.Username,
		EmailID:     req.EmailID,
		Password:    req.Password,
		FullName:    req.FullName,
		Bio:         req.Bio,
		Preferences: req.Preferences,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully.",
		Token:   res.Token,
		User:    publicProfile(res.Account),
	})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}
	req.normalize()
	if err := validation.Validate(&req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	res, err := h.svc.Login(c.Request.Context(), LoginInput{EmailID: req.EmailID, Password: req.Password})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful.",
		Token:   res.Token,
		User:    publicProfile(res.Account),
	})
}

// Get handles GET /:userId.
func (h *Handler) Get(c *gin.Context) {
	acct, err := h.svc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: fullProfile(acct)})
}

// Update handles PUT /:userId.
func (h *Handler) Update(c *gin.Context) {
	caller, err := authctx.GetOrError(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	var req UpdateRequest
	if !bind(c, &req) {
		return
	}
	req.normalize()
	if err := validation.Validate(&req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	acct, err := h.svc.Update(c.Request.Context(), caller, c.Param("userId"), UpdateInput{
		Username:    req.Username,
		EmailID:     req.EmailID,
		Password:    req.Password,
		FullName:    req.FullName,
		Bio:         req.Bio,
		Preferences: req.Preferences,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UpdateResponse{
		Message: "User updated successfully.",
		User:    publicProfile(acct),
	})
}

// Delete handles DELETE /:userId.
func (h *Handler) Delete(c *gin.Context) {
	caller, err := authctx.GetOrError(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller, c.Param("userId")); err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully."})
}

// bind decodes the JSON body into dst, responding 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		server.RespondWithError(c, apperrors.Validation("Request body must be a valid JSON object."))
		return false
	}
	return true
}
