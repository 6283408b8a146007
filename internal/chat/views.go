// ABOUTME: Derived read views over the conversation store
// ABOUTME: List ordering, favorites set, pinned-message views, and message search

package chat

import (
	"sort"
	"strings"
	"time"
)

// Chats returns copies of all conversations in display order: favorites
// first, then by descending last-message timestamp; conversations without
// messages sort after any conversation that has one. Ties among empty
// conversations keep insertion order.
func (s *Service) Chats() []*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		result = append(result, conv.clone())
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Favorite != b.Favorite {
			return a.Favorite
		}
		switch {
		case a.LastMessage != nil && b.LastMessage != nil:
			return a.LastMessage.Timestamp.After(b.LastMessage.Timestamp)
		case a.LastMessage != nil:
			return true
		default:
			return false
		}
	})

	return result
}

// FavoriteChatIDs derives the set of favorited conversation identifiers from
// the per-conversation flags.
func (s *Service) FavoriteChatIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, conv := range s.conversations {
		if conv.Favorite {
			ids = append(ids, conv.ID)
		}
	}
	return ids
}

// PinnedMessages returns a copy of the raw pinned-message index for the
// conversation, including entries whose pin has already expired.
func (s *Service) PinnedMessages(chatID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Message(nil), s.pinned[chatID]...)
}

// ActivePins returns the conversation's messages whose pin has not expired:
// IsPinned set and PinnedUntil strictly in the future. Expired pins stay on
// the raw messages but disappear from this view.
func (s *Service) ActivePins(chatID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[chatID]
	if !ok {
		return nil
	}

	now := time.Now()
	var pins []Message
	for _, msg := range conv.Messages {
		if msg.IsPinned && msg.PinnedUntil.After(now) {
			pins = append(pins, msg)
		}
	}
	return pins
}

// SearchMessages returns the conversation's messages whose content contains
// the query, case-insensitively. An empty or whitespace-only query yields no
// results rather than every message. Unknown conversations yield no results.
func (s *Service) SearchMessages(chatID, query string) []Message {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[chatID]
	if !ok {
		return nil
	}

	var matches []Message
	for _, msg := range conv.Messages {
		if strings.Contains(strings.ToLower(msg.Content), needle) {
			matches = append(matches, msg)
		}
	}
	return matches
}
