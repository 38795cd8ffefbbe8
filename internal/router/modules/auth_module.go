package modules

import (
	"github.com/gin-gonic/gin"

	"notesapi/internal/application"
	handlers "notesapi/internal/interface/http"
	"notesapi/internal/interface/middleware"
)

// AuthModule wires the auth endpoints.
// Public: POST /auth/signup, POST /auth/signin
// Protected: GET /auth/me, POST /auth/refresh

type AuthModule struct {
	Handler *handlers.AuthHandler
	Svc     *application.AuthService
}

func NewAuthModule(h *handlers.AuthHandler, svc *application.AuthService) *AuthModule {
	return &AuthModule{Handler: h, Svc: svc}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", m.Handler.Signup)
	rg.POST("/auth/signin", m.Handler.Signin)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Svc))
	{
		auth.GET("/auth/me", m.Handler.Me)
		auth.POST("/auth/refresh", m.Handler.Refresh)
	}
}
