package modules

import (
	"github.com/gin-gonic/gin"

	"notesapi/internal/application"
	handlers "notesapi/internal/interface/http"
	"notesapi/internal/interface/middleware"
)

// NotesModule wires the note endpoints; every route requires a bearer token.
// Fixed paths (/notes/search, /notes/stats/summary) are registered before the
// :id routes so Gin resolves them first.

type NotesModule struct {
	Handler *handlers.NoteHandler
	Auth    *application.AuthService
}

func NewNotesModule(h *handlers.NoteHandler, auth *application.AuthService) *NotesModule {
	return &NotesModule{Handler: h, Auth: auth}
}

func (m *NotesModule) Register(rg *gin.RouterGroup) {
	notes := rg.Group("/notes")
	notes.Use(middleware.Auth(m.Auth))
	{
		notes.POST("", m.Handler.Create)
		notes.GET("", m.Handler.List)
		notes.GET("/search", m.Handler.Search)
		notes.GET("/stats/summary", m.Handler.Stats)
		notes.GET("/:id", m.Handler.Get)
		notes.PUT("/:id", m.Handler.Update)
		notes.DELETE("/:id", m.Handler.Delete)
	}
}
