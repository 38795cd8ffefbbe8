package router

import (
	"notesapi/internal/application"
	"notesapi/internal/container"
	pginfra "notesapi/internal/infrastructure/postgres"
	handlers "notesapi/internal/interface/http"
	"notesapi/internal/router/modules"
)

func buildAuthService() *application.AuthService {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	return application.NewAuthService(
		repo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetEventsPub(),
	)
}

func buildNoteService() *application.NoteService {
	repo := pginfra.NewNoteRepository(container.GetPGPool())
	cfg := container.GetConfig()
	return application.NewNoteService(
		repo,
		container.GetRedis(),
		container.GetLogger(),
		container.GetEventsPub(),
		container.GetES(),
		cfg.ESNotesIndex,
		cfg.NoteListMaxLimit,
		cfg.NoteListDefaultLimit,
	)
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	logger := container.GetLogger()
	authSvc := buildAuthService()
	noteSvc := buildNoteService()

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(container.GetPGPool(), container.GetRedis(), logger)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), authSvc))
	r.Add(modules.NewNotesModule(handlers.NewNoteHandler(noteSvc, logger), authSvc))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
