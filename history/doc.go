// Package history provides core.ChatHistoryRepository implementations: a
// volatile in-memory repository for tests and prototypes, and a durable
// SQLite repository with embedded schema migrations.
package history
