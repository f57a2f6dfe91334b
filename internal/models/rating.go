package models

// RaterIdentity identifies who rated a file: an account or an anonymous session, never both.
type RaterIdentity struct {
	UserID    *int64
	SessionID string
}

// Anonymous reports whether the rater has no account.
func (r RaterIdentity) Anonymous() bool {
	return r.UserID == nil
}
