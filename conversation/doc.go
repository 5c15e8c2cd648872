// Package conversation provides ConversationStore implementations: a
// volatile in-memory store for tests and ephemeral sessions, and a durable
// SQLite-backed store in the sqlite subpackage.
package conversation
