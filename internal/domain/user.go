package domain

// User represents a registered account in the system.
type User struct {
	Timestamps
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string `json:"display_name,omitempty"`
	Bio          string `json:"bio,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`

	// Assigned at registration, derived from the user ID.
	AvatarColor string `json:"avatar_color,omitempty"`

	// Denormalized counter, refreshed by recount after subscribe/unsubscribe.
	SubscriberCount int64 `json:"subscriber_count"`
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Profile is the public view of a user, safe to embed in API responses.
type Profile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name,omitempty"`
	Bio             string `json:"bio,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	AvatarColor     string `json:"avatar_color,omitempty"`
	SubscriberCount int64  `json:"subscriber_count"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:              u.ID,
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		Bio:             u.Bio,
		AvatarURL:       u.AvatarURL,
		AvatarColor:     u.AvatarColor,
		SubscriberCount: u.SubscriberCount,
	}
}
