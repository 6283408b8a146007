// ABOUTME: Handlers for the conversation endpoints
// ABOUTME: Thin JSON layer over the chat service operations

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wfconnect/marketplace/internal/chat"
)

// messageResponse is the wire shape of a message.
type messageResponse struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"senderId"`
	Content     string     `json:"content"`
	Timestamp   time.Time  `json:"timestamp"`
	FileURL     string     `json:"fileUrl,omitempty"`
	FileName    string     `json:"fileName,omitempty"`
	FileType    string     `json:"fileType,omitempty"`
	IsPinned    bool       `json:"isPinned,omitempty"`
	PinnedUntil *time.Time `json:"pinnedUntil,omitempty"`
}

func toMessageResponse(m chat.Message) messageResponse {
	resp := messageResponse{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		FileURL:   m.FileURL,
		FileName:  m.FileName,
		FileType:  m.FileType,
		IsPinned:  m.IsPinned,
	}
	if !m.PinnedUntil.IsZero() {
		until := m.PinnedUntil
		resp.PinnedUntil = &until
	}
	return resp
}

func toMessageResponses(msgs []chat.Message) []messageResponse {
	result := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, toMessageResponse(m))
	}
	return result
}

// chatResponse is the wire shape of a conversation.
type chatResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Participants    []string          `json:"participants"`
	Messages        []messageResponse `json:"messages"`
	IsGroup         bool              `json:"isGroup"`
	PendingApproval bool              `json:"pendingApproval,omitempty"`
	Rejected        bool              `json:"rejected,omitempty"`
	Favorite        bool              `json:"isFavorite,omitempty"`
	LastMessage     *messageResponse  `json:"lastMessage,omitempty"`
}

func toChatResponse(c *chat.Conversation) chatResponse {
	resp := chatResponse{
		ID:              c.ID,
		Name:            c.Name,
		Participants:    c.Participants,
		Messages:        toMessageResponses(c.Messages),
		IsGroup:         c.IsGroup,
		PendingApproval: c.PendingApproval,
		Rejected:        c.Rejected,
		Favorite:        c.Favorite,
	}
	if c.LastMessage != nil {
		last := toMessageResponse(*c.LastMessage)
		resp.LastMessage = &last
	}
	return resp
}

func (s *Server) handleListChats(w http.ResponseWriter, _ *http.Request) {
	chats := s.chats.Chats()
	result := make([]chatResponse, 0, len(chats))
	for _, c := range chats {
		result = append(result, toChatResponse(c))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Participants []string `json:"participants"`
		Name         string   `json:"name"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	conv, err := s.chats.CreateChat(req.Participants, req.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toChatResponse(conv))
}

func (s *Server) handleRequestChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	chatID, err := s.chats.RequestChat(req.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"chatId": chatID})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	conv, err := s.chats.GetChat(chi.URLParam(r, "chatID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	resp := toChatResponse(conv)
	s.writeJSON(w, http.StatusOK, struct {
		chatResponse
		Approved bool `json:"approved"`
	}{resp, s.chats.IsChatApproved(conv.ID)})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	s.chats.DeleteChat(chi.URLParam(r, "chatID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApproveChat(w http.ResponseWriter, r *http.Request) {
	s.chats.ApproveChat(chi.URLParam(r, "chatID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRejectChat(w http.ResponseWriter, r *http.Request) {
	s.chats.RejectChat(chi.URLParam(r, "chatID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s.chats.ToggleFavoriteChat(chi.URLParam(r, "chatID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFavoriteChats(w http.ResponseWriter, _ *http.Request) {
	ids := s.chats.FavoriteChatIDs()
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleActiveChat(w http.ResponseWriter, _ *http.Request) {
	conv := s.chats.ActiveChat()
	if conv == nil {
		s.writeJSON(w, http.StatusOK, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, toChatResponse(conv))
}

func (s *Server) handleSetActiveChat(w http.ResponseWriter, r *http.Request) {
	s.chats.SetActiveChat(chi.URLParam(r, "chatID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearActiveChat(w http.ResponseWriter, _ *http.Request) {
	s.chats.ClearActiveChat()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.chats.SendMessage(chi.URLParam(r, "chatID"), req.Content); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		ContentType string `json:"contentType"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	file := chat.File{Name: req.Name, ContentType: req.ContentType}
	if err := s.chats.SendFileMessage(r.Context(), chi.URLParam(r, "chatID"), file); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	matches := s.chats.SearchMessages(chi.URLParam(r, "chatID"), query)
	s.writeJSON(w, http.StatusOK, toMessageResponses(matches))
}

func (s *Server) handleActivePins(w http.ResponseWriter, r *http.Request) {
	pins := s.chats.ActivePins(chi.URLParam(r, "chatID"))
	s.writeJSON(w, http.StatusOK, toMessageResponses(pins))
}

func (s *Server) handlePinnedHistory(w http.ResponseWriter, r *http.Request) {
	pins := s.chats.PinnedMessages(chi.URLParam(r, "chatID"))
	s.writeJSON(w, http.StatusOK, toMessageResponses(pins))
}

func (s *Server) handlePinMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Duration string `json:"duration"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	chatID := chi.URLParam(r, "chatID")
	messageID := chi.URLParam(r, "messageID")
	if err := s.chats.PinMessage(chatID, messageID, chat.PinDuration(req.Duration)); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
