package domain

import "time"

// Repository represents a remote code repository as reported by the
// hosting platform's "list repositories for user" endpoint.
// This is a domain model (part of business logic).
type Repository struct {
	FullName  string
	HTMLURL   string
	UpdatedAt time.Time

	// Language is the primary language label, nil when the platform
	// reports none.
	Language *string
}

// IsProfile returns true if this is the user's profile repository,
// i.e. its full name is "{user}/{user}".
func (r Repository) IsProfile(user string) bool {
	return r.FullName == user+"/"+user
}
