// ABOUTME: Handlers for registration, login, sessions, and the user directory
// ABOUTME: User records are returned without the password hash

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wfconnect/marketplace/internal/auth"
	"github.com/wfconnect/marketplace/internal/store"
)

// userResponse is the wire shape of a user record.
type userResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	PhotoURL string   `json:"photoUrl,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Skills   []string `json:"skills"`
	Role     string   `json:"role"`
}

func toUserResponse(u *store.User) userResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return userResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
		Bio:      u.Bio,
		Skills:   skills,
		Role:     string(u.Role),
	}
}

// sessionResponse is returned by register and login.
type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password, store.Role(req.Role))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sessionResponse{User: toUserResponse(user), Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{User: toUserResponse(user), Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.auth.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request) {
	current := s.auth.CurrentUser()
	if current == nil {
		s.writeServiceError(w, auth.ErrNotAuthenticated)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserResponse(current))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string  `json:"name"`
		PhotoURL *string  `json:"photoUrl"`
		Bio      *string  `json:"bio"`
		Skills   []string `json:"skills"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, err := s.auth.UpdateProfile(r.Context(), auth.ProfileUpdate{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Bio:      req.Bio,
		Skills:   req.Skills,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	result := make([]userResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserResponse(u))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleOnlineUsers(w http.ResponseWriter, _ *http.Request) {
	online := s.chats.OnlineUsers()
	if online == nil {
		online = []string{}
	}
	s.writeJSON(w, http.StatusOK, online)
}
