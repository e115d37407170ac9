package model

// Principal is the caller of a journal endpoint, taken from the bearer token.
type Principal struct {
	UserID    string
	Role      string
	RequestID string
}

// HasRole reports whether the principal holds one of roles. An empty list
// allows every role.
func (p Principal) HasRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
