// Package api exposes the marketplace services over HTTP.
//
// Routes live under /api. Registration and login are public; every other
// endpoint requires a bearer token issued at login, and the token must belong
// to the user holding the active session. Responses are JSON; service errors
// are mapped onto conventional status codes in respond.go.
package api
