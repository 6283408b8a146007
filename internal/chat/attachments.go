// ABOUTME: File-message composition for the attachment flow
// ABOUTME: Builds synthetic upload URLs; a real storage backend slots in behind sendFile

package chat

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnsupportedFileType is returned when the attachment extension is not in
// the allow-list.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// storageBaseURL is the stand-in for the file-storage backend.
const storageBaseURL = "https://storage.example.com/files/"

// allowedExtensions mirrors the upload dialog's accept list: documents,
// text, audio, video, archives, and common image formats.
var allowedExtensions = map[string]struct{}{
	".doc": {}, ".docx": {}, ".pdf": {}, ".txt": {},
	".mp3": {}, ".mp4": {},
	".zip": {}, ".rar": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
}

// File describes an attachment handed to the composition flow.
type File struct {
	Name        string
	ContentType string
}

// AllowedFile reports whether the file's extension is in the allow-list.
// This is a UI hint, not a security boundary.
func AllowedFile(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// SendFileMessage uploads the file and appends a message carrying its
// metadata. The upload is currently fabricated: the URL is derived from the
// file name and resolves immediately, keeping the signature asynchronous for
// when a real storage call replaces it. Requires an authenticated session;
// unknown conversations are ignored.
func (s *Service) SendFileMessage(ctx context.Context, chatID string, file File) error {
	current := s.identity.CurrentUser()
	if current == nil {
		return ErrNotAuthenticated
	}
	if !AllowedFile(file.Name) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, file.Name)
	}

	url, err := s.uploadFile(ctx, file)
	if err != nil {
		return err
	}

	msg := Message{
		ID:        uuid.New().String(),
		SenderID:  current.ID,
		Content:   "[Archivo adjunto] " + file.Name,
		Timestamp: time.Now(),
		FileURL:   url,
		FileName:  file.Name,
		FileType:  file.ContentType,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[chatID]
	if !ok {
		return nil
	}
	s.appendLocked(conv, msg)
	s.logger.Debug("file message sent", "chat_id", chatID, "file", file.Name)
	return nil
}

// uploadFile fabricates a storage URL for the file. Replace with the real
// storage client once one exists.
func (s *Service) uploadFile(ctx context.Context, file File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return storageBaseURL + file.Name, nil
}
