// Package notify decouples services from notification presentation.
package notify
