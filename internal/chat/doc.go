// Package chat provides the conversation store for the marketplace.
//
// # Overview
//
// The Service owns every conversation and message in the process. All state
// mutation happens synchronously through its operations; readers always see
// the snapshot produced by the most recent write. Nothing here persists
// beyond the process lifetime.
//
// # Service
//
//	svc := chat.NewService(authSvc, notifier, logger)
//	defer svc.Close()
//
// Key operations:
//
//   - CreateChat(participants, name): direct construction, immediately active
//   - RequestChat(userID): 1:1 request pending the other side's approval;
//     idempotent for an existing pair
//   - ApproveChat / RejectChat: resolve a pending request
//   - SendMessage / SendFileMessage: append to a conversation
//   - PinMessage: time-bounded highlight with a fixed duration set
//   - SearchMessages: case-insensitive substring search
//   - DeleteChat, ToggleFavoriteChat, SetActiveChat
//
// # Approval state machine
//
// A requested conversation starts with PendingApproval set. ApproveChat
// clears both flags ("active"); RejectChat clears pending and sets Rejected.
// Both states are terminal. Directly created conversations bypass the
// pending state entirely.
//
// # Derived views
//
// Chats() orders favorites first, then by newest last message. ActivePins
// filters to unexpired pins at read time; a background sweeper additionally
// purges expired entries from the pinned side index so long-lived sessions
// don't accumulate them.
package chat
