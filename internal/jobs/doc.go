// Package jobs manages marketplace job postings.
//
// Postings live in process memory, mirroring the conversation store's
// single-writer model. Creation requires an authenticated user; editing and
// deleting are restricted to the posting's owner, which is the only
// authorization check the marketplace enforces.
package jobs
