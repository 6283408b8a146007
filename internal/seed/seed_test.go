// ABOUTME: Tests for the demo data seeder
// ABOUTME: Verifies fixture decoding and loading into the conversation store

package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfconnect/marketplace/internal/chat"
	"github.com/wfconnect/marketplace/internal/notify"
	"github.com/wfconnect/marketplace/internal/store"
)

type fakeIdentity struct {
	user *store.User
}

func (f *fakeIdentity) CurrentUser() *store.User {
	return f.user
}

func TestParse(t *testing.T) {
	now := time.Now()
	convs, online, err := parse(demoFixture, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, online)
	require.Len(t, convs, 3)

	group := convs[0]
	assert.Equal(t, "Proyecto Web App", group.Name)
	assert.True(t, group.IsGroup)
	assert.Equal(t, []string{"1", "2", "3"}, group.Participants)
	require.Len(t, group.Messages, 8)
	assert.Equal(t, now.Add(-24*time.Hour), group.Messages[0].Timestamp)

	direct := convs[1]
	assert.False(t, direct.IsGroup)
	assert.Empty(t, direct.Name)
	require.Len(t, direct.Messages, 7)

	// Within each chat, messages are ordered oldest first
	for _, conv := range convs {
		for i := 1; i < len(conv.Messages); i++ {
			assert.True(t, conv.Messages[i].Timestamp.After(conv.Messages[i-1].Timestamp),
				"chat %s message %d out of order", conv.ID, i)
		}
	}
}

func TestParse_BadAge(t *testing.T) {
	data := []byte(`
[[chats]]
id = "x"
participants = ["1"]

  [[chats.messages]]
  id = "1"
  sender = "1"
  content = "hola"
  age = "ayer"
`)
	_, _, err := parse(data, time.Now())
	assert.ErrorContains(t, err, "bad age")
}

func TestApply(t *testing.T) {
	identity := &fakeIdentity{user: &store.User{ID: "1"}}
	svc := chat.NewService(identity, &notify.Recorder{}, nil)
	defer svc.Close()

	require.NoError(t, Apply(svc))

	assert.True(t, svc.IsUserOnline("2"))
	assert.False(t, svc.IsUserOnline("9"))

	conv, err := svc.GetChat("3")
	require.NoError(t, err)
	assert.Equal(t, "Soporte Técnico", conv.Name)
	require.NotNil(t, conv.LastMessage)
	assert.Equal(t, "6", conv.LastMessage.ID)

	// Seeded chats are already approved
	assert.True(t, svc.IsChatApproved("1"))

	// Applying twice does not duplicate conversations
	require.NoError(t, Apply(svc))
	assert.Len(t, svc.Chats(), 3)
}
