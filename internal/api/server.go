// ABOUTME: HTTP API server for the marketplace
// ABOUTME: Mounts auth, chat, and job routes on a chi router

package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wfconnect/marketplace/internal/auth"
	"github.com/wfconnect/marketplace/internal/chat"
	"github.com/wfconnect/marketplace/internal/jobs"
)

// Server bundles the services behind the HTTP API.
type Server struct {
	auth   *auth.Service
	chats  *chat.Service
	jobs   *jobs.Service
	logger *slog.Logger
}

// NewServer creates the API server.
func NewServer(authSvc *auth.Service, chatSvc *chat.Service, jobSvc *jobs.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		auth:   authSvc,
		chats:  chatSvc,
		jobs:   jobSvc,
		logger: logger.With("component", "api"),
	}
}

// Routes builds the router. Registration and login are public; everything
// else requires a bearer token matching the active session.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)
			r.Patch("/auth/me", s.handleUpdateProfile)

			r.Get("/users", s.handleListUsers)
			r.Get("/users/{userID}", s.handleGetUser)
			r.Get("/users/online", s.handleOnlineUsers)

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", s.handleListChats)
				r.Post("/", s.handleCreateChat)
				r.Post("/request", s.handleRequestChat)
				r.Get("/favorites", s.handleFavoriteChats)
				r.Get("/active", s.handleActiveChat)
				r.Delete("/active", s.handleClearActiveChat)

				r.Route("/{chatID}", func(r chi.Router) {
					r.Get("/", s.handleGetChat)
					r.Delete("/", s.handleDeleteChat)
					r.Post("/approve", s.handleApproveChat)
					r.Post("/reject", s.handleRejectChat)
					r.Post("/favorite", s.handleToggleFavorite)
					r.Post("/activate", s.handleSetActiveChat)
					r.Post("/messages", s.handleSendMessage)
					r.Post("/files", s.handleSendFile)
					r.Get("/messages/search", s.handleSearchMessages)
					r.Get("/pins", s.handleActivePins)
					r.Get("/pins/history", s.handlePinnedHistory)
					r.Post("/messages/{messageID}/pin", s.handlePinMessage)
				})
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", s.handleListJobs)
				r.Post("/", s.handleCreateJob)
				r.Get("/categories", s.handleJobCategories)
				r.Get("/skills", s.handleJobSkills)

				r.Route("/{jobID}", func(r chi.Router) {
					r.Get("/", s.handleGetJob)
					r.Patch("/", s.handleUpdateJob)
					r.Delete("/", s.handleDeleteJob)
				})
			})
		})
	})

	return r
}
