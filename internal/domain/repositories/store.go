package repositories

import "context"

// Store bundles one storage backend's repositories
type Store struct {
	Users    UserRepository
	Chats    ChatRepository
	Messages MessageRepository
	Tx       TransactionManager

	// Close releases the backend's connections
	Close func() error

	// Ping checks the backend is reachable
	Ping func(ctx context.Context) error
}
