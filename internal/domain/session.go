package domain

// Session is the authenticated user plus the bearer credential returned by
// login or register.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type ChatMessage struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}
