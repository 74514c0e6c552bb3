package api

import (
	"context"
	"net/http"

	"github.com/nicojahn/readme-refresh/internal/domain"
)

// RepositoryClient defines the interface for code-hosting platform clients.
// This follows Interface Segregation Principle - small, focused interface.
// Allows dependency inversion - consumers depend on this interface, not concrete implementations.
type RepositoryClient interface {
	// ListRepositories returns the repositories belonging to the given user.
	ListRepositories(ctx context.Context, user string) ([]domain.Repository, error)
}

// HTTPClient interface for HTTP operations (allows mocking in tests).
// Follows Interface Segregation Principle.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}
