package store

// User identifies a Telegram user
type User struct {
	ID        int64
	Username  string
	FirstName string
}

// UsersStore abstracts user persistence
type UsersStore interface {
	// SaveUser inserts or updates a user record
	SaveUser(user User) error
}
