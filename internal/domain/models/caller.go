package models

// Caller is the identity attached to a request: either an authenticated
// user or anonymous. It is resolved once by the auth middleware.
type Caller struct {
	user *User
}

// Authenticated returns a caller for the given user.
func Authenticated(user *User) Caller {
	return Caller{user: user}
}

// Anonymous returns the anonymous caller.
func Anonymous() Caller {
	return Caller{}
}

// IsAnonymous reports whether no user is attached.
func (c Caller) IsAnonymous() bool {
	return c.user == nil
}

// User returns the authenticated user, or nil for anonymous callers.
func (c Caller) User() *User {
	return c.user
}

// UserID returns the user id and true for authenticated callers.
func (c Caller) UserID() (int64, bool) {
	if c.user == nil {
		return 0, false
	}
	return c.user.ID, true
}

// OwnerID returns a pointer suitable for the Chat.UserID column.
func (c Caller) OwnerID() *int64 {
	if c.user == nil {
		return nil
	}
	id := c.user.ID
	return &id
}
