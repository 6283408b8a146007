// Package seed installs demo conversations and a static presence set into
// the conversation store, for development and demos.
package seed
