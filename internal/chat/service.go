// ABOUTME: Service is the conversation store for the marketplace chat
// ABOUTME: Owns all conversation state; every mutation goes through its operations

package chat

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfconnect/marketplace/internal/notify"
	"github.com/wfconnect/marketplace/internal/store"
)

// Service errors
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrChatNotFound       = errors.New("chat not found")
	ErrInvalidPinDuration = errors.New("invalid pin duration")
)

// introMessage seeds every new chat request with a greeting from the requester.
const introMessage = "¡Hola! Me gustaría chatear contigo."

// Identity resolves the acting user. Satisfied by auth.Service.
type Identity interface {
	CurrentUser() *store.User
}

// Service owns the in-memory collection of conversations and exposes every
// operation that mutates it. State follows a single-writer, synchronous-apply
// model: readers always observe the snapshot produced by the latest write.
// Conversation state does not outlive the process.
type Service struct {
	mu            sync.RWMutex
	conversations []*Conversation          // insertion order
	byID          map[string]*Conversation // keyed by conversation ID
	pinned        map[string][]Message     // pinned-message side index keyed by conversation ID
	activeID      string
	online        []string // static presence set

	identity Identity
	notifier notify.Notifier
	logger   *slog.Logger

	sweepDone chan struct{}
	closed    bool
}

// Option configures a Service.
type Option func(*options)

type options struct {
	sweepInterval time.Duration
}

// WithSweepInterval overrides how often expired pins are purged from the
// side index. Mainly useful in tests.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.sweepInterval = d }
}

// NewService creates a conversation store. A background goroutine purges
// expired entries from the pinned-message index; call Close to stop it.
func NewService(identity Identity, notifier notify.Notifier, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{sweepInterval: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Service{
		byID:      make(map[string]*Conversation),
		pinned:    make(map[string][]Message),
		identity:  identity,
		notifier:  notifier,
		logger:    logger.With("component", "chat"),
		sweepDone: make(chan struct{}),
	}
	go s.sweep(o.sweepInterval)
	return s
}

// CreateChat creates a conversation that is immediately active. The acting
// user is always included in the participant list. A conversation is a group
// when it has more than two participants or was given a name.
func (s *Service) CreateChat(participantIDs []string, name string) (*Conversation, error) {
	current := s.identity.CurrentUser()
	if current == nil {
		return nil, ErrNotAuthenticated
	}

	participants := append([]string(nil), participantIDs...)
	found := false
	for _, id := range participants {
		if id == current.ID {
			found = true
			break
		}
	}
	if !found {
		participants = append(participants, current.ID)
	}

	conv := &Conversation{
		ID:           uuid.New().String(),
		Name:         name,
		Participants: participants,
		IsGroup:      len(participants) > 2 || name != "",
	}

	s.mu.Lock()
	s.conversations = append(s.conversations, conv)
	s.byID[conv.ID] = conv
	s.activeID = conv.ID
	s.mu.Unlock()

	s.logger.Debug("chat created", "chat_id", conv.ID, "group", conv.IsGroup, "participants", len(participants))
	return conv.clone(), nil
}

// RequestChat starts a 1:1 conversation with the target user, pending their
// approval. The request is idempotent: if a non-group conversation between
// the two users already exists, its identifier is returned and it becomes
// the active chat instead of creating a duplicate.
func (s *Service) RequestChat(targetUserID string) (string, error) {
	current := s.identity.CurrentUser()
	if current == nil {
		return "", ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conv := range s.conversations {
		if !conv.IsGroup && conv.HasParticipant(current.ID) && conv.HasParticipant(targetUserID) {
			s.activeID = conv.ID
			return conv.ID, nil
		}
	}

	now := time.Now()
	first := Message{
		ID:        uuid.New().String(),
		SenderID:  current.ID,
		Content:   introMessage,
		Timestamp: now,
	}
	conv := &Conversation{
		ID:              uuid.New().String(),
		Participants:    []string{current.ID, targetUserID},
		Messages:        []Message{first},
		IsGroup:         false,
		PendingApproval: true,
	}
	conv.LastMessage = &first

	s.conversations = append(s.conversations, conv)
	s.byID[conv.ID] = conv
	s.activeID = conv.ID

	s.notifier.Notify("Solicitud enviada", "Se ha enviado una solicitud para iniciar un chat")
	s.logger.Debug("chat requested", "chat_id", conv.ID, "target", targetUserID)
	return conv.ID, nil
}

// ApproveChat marks a requested conversation as active. Unknown identifiers
// are ignored. The invited participant is expected to call this, but no
// ownership check is enforced; the store is a single-user client model.
func (s *Service) ApproveChat(chatID string) {
	s.mu.Lock()
	conv, ok := s.byID[chatID]
	if ok {
		conv.PendingApproval = false
		conv.Rejected = false
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	s.notifier.Notify("Solicitud aceptada", "Ahora puedes chatear con este usuario")
	s.logger.Debug("chat approved", "chat_id", chatID)
}

// RejectChat marks a requested conversation as rejected. Unknown identifiers
// are ignored.
func (s *Service) RejectChat(chatID string) {
	s.mu.Lock()
	conv, ok := s.byID[chatID]
	if ok {
		conv.PendingApproval = false
		conv.Rejected = true
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	s.notifier.Notify("Solicitud rechazada", "Has rechazado esta solicitud de chat")
	s.logger.Debug("chat rejected", "chat_id", chatID)
}

// DeleteChat removes a conversation along with its pinned-message index
// entry and clears the active selection if it pointed at it. Deleting an
// unknown identifier is a no-op.
func (s *Service) DeleteChat(chatID string) {
	s.mu.Lock()
	_, ok := s.byID[chatID]
	if ok {
		delete(s.byID, chatID)
		kept := s.conversations[:0]
		for _, conv := range s.conversations {
			if conv.ID != chatID {
				kept = append(kept, conv)
			}
		}
		s.conversations = kept
		delete(s.pinned, chatID)
		if s.activeID == chatID {
			s.activeID = ""
		}
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	s.notifier.Notify("Chat eliminado", "La conversación ha sido eliminada permanentemente.")
	s.logger.Debug("chat deleted", "chat_id", chatID)
}

// ToggleFavoriteChat flips the favorite flag on the conversation. The flag is
// the only representation of favorite state; FavoriteChatIDs derives the set.
func (s *Service) ToggleFavoriteChat(chatID string) {
	s.mu.Lock()
	conv, ok := s.byID[chatID]
	var nowFavorite bool
	if ok {
		conv.Favorite = !conv.Favorite
		nowFavorite = conv.Favorite
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	if nowFavorite {
		s.notifier.Notify("Chat añadido a favoritos", "La conversación ha sido añadida a tus favoritos.")
	} else {
		s.notifier.Notify("Chat eliminado de favoritos", "La conversación ha sido eliminada de tus favoritos.")
	}
}

// PinDuration is one of the fixed pin lifetimes offered by the UI.
type PinDuration string

// Supported pin durations
const (
	PinOneHour   PinDuration = "1h"
	PinOneDay    PinDuration = "24h"
	PinThreeDays PinDuration = "3d"
	PinSevenDays PinDuration = "7d"
)

// pinDurations maps duration tokens to offsets from the moment of pinning.
var pinDurations = map[PinDuration]time.Duration{
	PinOneHour:   time.Hour,
	PinOneDay:    24 * time.Hour,
	PinThreeDays: 3 * 24 * time.Hour,
	PinSevenDays: 7 * 24 * time.Hour,
}

// PinMessage pins a message for the given duration. The pin is recorded on
// the message itself and copied into the per-conversation pinned index.
// Unknown duration tokens are rejected with ErrInvalidPinDuration; unknown
// chat or message identifiers are ignored.
func (s *Service) PinMessage(chatID, messageID string, duration PinDuration) error {
	offset, ok := pinDurations[duration]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPinDuration, duration)
	}
	until := time.Now().Add(offset)

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[chatID]
	if !ok {
		return nil
	}
	for i := range conv.Messages {
		if conv.Messages[i].ID == messageID {
			conv.Messages[i].IsPinned = true
			conv.Messages[i].PinnedUntil = until
			s.pinned[chatID] = append(s.pinned[chatID], conv.Messages[i])
			s.logger.Debug("message pinned", "chat_id", chatID, "message_id", messageID, "until", until)
			break
		}
	}
	return nil
}

// SendMessage appends a text message from the current user and updates the
// conversation's last-message reference. Requires an authenticated session.
// Sending to an unknown conversation is a no-op.
func (s *Service) SendMessage(chatID, content string) error {
	current := s.identity.CurrentUser()
	if current == nil {
		return ErrNotAuthenticated
	}

	msg := Message{
		ID:        uuid.New().String(),
		SenderID:  current.ID,
		Content:   content,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[chatID]
	if !ok {
		return nil
	}
	s.appendLocked(conv, msg)
	return nil
}

// appendLocked appends a message and keeps LastMessage in sync.
// Must be called with mu held.
func (s *Service) appendLocked(conv *Conversation, msg Message) {
	conv.Messages = append(conv.Messages, msg)
	last := msg
	conv.LastMessage = &last
}

// GetChat returns a copy of the conversation, or ErrChatNotFound.
func (s *Service) GetChat(chatID string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[chatID]
	if !ok {
		return nil, ErrChatNotFound
	}
	return conv.clone(), nil
}

// IsChatApproved reports whether the conversation exists and is not waiting
// for approval.
func (s *Service) IsChatApproved(chatID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[chatID]
	return ok && !conv.PendingApproval
}

// IsChatRejected reports whether the conversation exists and was rejected.
func (s *Service) IsChatRejected(chatID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[chatID]
	return ok && conv.Rejected
}

// ActiveChat returns a copy of the currently selected conversation, or nil.
func (s *Service) ActiveChat() *Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[s.activeID]
	if !ok {
		return nil
	}
	return conv.clone()
}

// SetActiveChat selects the conversation. Unknown identifiers clear nothing
// and are ignored.
func (s *Service) SetActiveChat(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[chatID]; ok {
		s.activeID = chatID
	}
}

// ClearActiveChat drops the current selection.
func (s *Service) ClearActiveChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
}

// OnlineUsers returns the static presence set.
func (s *Service) OnlineUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.online...)
}

// IsUserOnline reports membership in the presence set.
func (s *Service) IsUserOnline(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.online {
		if id == userID {
			return true
		}
	}
	return false
}

// SetOnlineUsers replaces the presence set. Populated by the seeder; a real
// presence feed would write through here as well.
func (s *Service) SetOnlineUsers(userIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = append([]string(nil), userIDs...)
}

// LoadConversations installs pre-built conversations in order, skipping
// identifiers that already exist. Used by the demo seeder at startup.
func (s *Service) LoadConversations(convs []*Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conv := range convs {
		if _, exists := s.byID[conv.ID]; exists {
			continue
		}
		c := conv.clone()
		if c.LastMessage == nil && len(c.Messages) > 0 {
			last := c.Messages[len(c.Messages)-1]
			c.LastMessage = &last
		}
		s.conversations = append(s.conversations, c)
		s.byID[c.ID] = c
	}
	s.logger.Debug("conversations loaded", "count", len(convs))
}

// Close stops the pin sweeper. It is safe to call multiple times.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.sweepDone)
		s.closed = true
	}
}
