package domain

import "strings"

// CurrentUser is the signed-in user of a detail session, injected where the
// user's identity is needed instead of being looked up globally.
type CurrentUser struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Anonymous reports whether nothing is known about the user.
func (u CurrentUser) Anonymous() bool {
	return strings.TrimSpace(u.Nickname) == ""
}
