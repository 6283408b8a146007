// Package store provides durable persistence for marketplace user accounts.
//
// Accounts are the only state that survives a restart; everything else
// (conversations, jobs) is held in memory by its owning service. Two
// implementations of UserStore are provided: SQLiteStore for production and
// MemoryStore for tests.
package store
