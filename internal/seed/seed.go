// ABOUTME: Demo data seeder for the conversation store
// ABOUTME: Decodes an embedded TOML fixture and loads it at startup

package seed

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wfconnect/marketplace/internal/chat"
)

//go:embed demo.toml
var demoFixture []byte

// fixture is the top-level TOML document.
type fixture struct {
	OnlineUsers []string      `toml:"online_users"`
	Chats       []chatFixture `toml:"chats"`
}

type chatFixture struct {
	ID           string           `toml:"id"`
	Name         string           `toml:"name"`
	Participants []string         `toml:"participants"`
	Group        bool             `toml:"group"`
	Messages     []messageFixture `toml:"messages"`
}

type messageFixture struct {
	ID      string `toml:"id"`
	Sender  string `toml:"sender"`
	Content string `toml:"content"`
	Age     string `toml:"age"` // offset before now, e.g. "24h"
}

// Apply loads the embedded demo conversations and presence set into the
// conversation store. Message timestamps are anchored to the current time so
// the fixture always looks recent.
func Apply(svc *chat.Service) error {
	convs, online, err := parse(demoFixture, time.Now())
	if err != nil {
		return fmt.Errorf("parsing demo fixture: %w", err)
	}
	svc.LoadConversations(convs)
	svc.SetOnlineUsers(online)
	return nil
}

// Preview decodes the embedded fixture without touching a store. Used by the
// seed-check command to validate the fixture.
func Preview() ([]*chat.Conversation, []string, error) {
	return parse(demoFixture, time.Now())
}

// parse decodes the fixture and resolves message ages against now.
func parse(data []byte, now time.Time) ([]*chat.Conversation, []string, error) {
	var f fixture
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, nil, err
	}

	convs := make([]*chat.Conversation, 0, len(f.Chats))
	for _, cf := range f.Chats {
		conv := &chat.Conversation{
			ID:           cf.ID,
			Name:         cf.Name,
			Participants: append([]string(nil), cf.Participants...),
			IsGroup:      cf.Group,
		}
		for _, mf := range cf.Messages {
			age, err := time.ParseDuration(mf.Age)
			if err != nil {
				return nil, nil, fmt.Errorf("chat %s message %s: bad age %q: %w", cf.ID, mf.ID, mf.Age, err)
			}
			conv.Messages = append(conv.Messages, chat.Message{
				ID:        mf.ID,
				SenderID:  mf.Sender,
				Content:   mf.Content,
				Timestamp: now.Add(-age),
			})
		}
		convs = append(convs, conv)
	}
	return convs, f.OnlineUsers, nil
}
