package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"notesapi/internal/application"
	"notesapi/internal/interface/middleware"
	"notesapi/pkg/response"
	"notesapi/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error[any](c, storeFailureStatus(err), "failed to create account", nil)
		return
	}
	response.Success(c, http.StatusCreated, publicUser(u), "account created", nil)
}

// Signin POST /auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	_, token, exp, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			// same message whether the email or the password was wrong
			response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		h.Logger.WithError(err).Error("signin failed")
		response.Error[any](c, storeFailureStatus(err), "authentication failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token, "token_type": "bearer"}, "signed in",
		gin.H{"expires_at": exp.UTC()})
}

// Me GET /auth/me (auth required)
func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	response.Success(c, http.StatusOK, publicUser(u), "current user", nil)
}

// Refresh POST /auth/refresh (auth required). Issues a fresh token; the old
// one remains valid until its own expiry.
func (h *AuthHandler) Refresh(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	token, exp, err := h.Svc.Refresh(u)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("token refresh failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to refresh token", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token, "token_type": "bearer"}, "token refreshed",
		gin.H{"expires_at": exp.UTC()})
}
