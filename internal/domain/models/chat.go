package models

import "time"

// Chat is a conversation thread. A nil UserID means the chat is anonymous.
type Chat struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	UserID      *int64    `json:"userId" db:"user_id"`
	IsAnonymous bool      `json:"isAnonymous" db:"is_anonymous"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// OwnedBy reports whether the chat has userID as its concrete owner.
func (c *Chat) OwnedBy(userID int64) bool {
	return c.UserID != nil && *c.UserID == userID
}

// CanView reports whether the caller may read or append to the chat.
func (c *Chat) CanView(caller Caller) bool {
	if c.IsAnonymous {
		return true
	}
	id, ok := caller.UserID()
	return ok && c.OwnedBy(id)
}

// CanMutate reports whether the caller may rename or delete the chat.
// Anonymous chats have no owner and so are never mutable.
func (c *Chat) CanMutate(caller Caller) bool {
	id, ok := caller.UserID()
	return ok && c.OwnedBy(id)
}
