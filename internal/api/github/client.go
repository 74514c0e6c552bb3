package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nicojahn/readme-refresh/internal/api"
	"github.com/nicojahn/readme-refresh/internal/domain"
)

// Client implements api.RepositoryClient for the GitHub REST API.
// Follows Single Responsibility Principle - only handles GitHub API communication.
type Client struct {
	baseURL    string
	token      string
	httpClient api.HTTPClient
}

// NewClient creates a new GitHub client.
// Uses dependency injection for HTTPClient (IoC).
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
	}
}

// ListRepositories retrieves the public repositories of a user.
// Timestamps in the response are UTC:
// https://developer.github.com/v3/#defaulting-to-utc-without-other-timezone-information
func (c *Client) ListRepositories(ctx context.Context, user string) ([]domain.Repository, error) {
	url := fmt.Sprintf("%s/users/%s/repos?per_page=100", c.baseURL, user)

	var ghRepos []githubRepository
	if err := c.doRequest(ctx, url, &ghRepos); err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	return c.convertRepositories(ghRepos), nil
}

// doRequest performs an HTTP request to the GitHub API.
// Follows Single Level of Abstraction Principle (SLAP).
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// The endpoint is public; the token only raises rate limits.
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// convertRepositories converts GitHub repositories to domain models.
func (c *Client) convertRepositories(ghRepos []githubRepository) []domain.Repository {
	repos := make([]domain.Repository, 0, len(ghRepos))
	for _, repo := range ghRepos {
		repos = append(repos, domain.Repository{
			FullName:  repo.FullName,
			HTMLURL:   repo.HTMLURL,
			UpdatedAt: repo.UpdatedAt,
			Language:  repo.Language,
		})
	}
	return repos
}

// GitHub API response types
type githubRepository struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	HTMLURL   string    `json:"html_url"`
	Language  *string   `json:"language"`
	UpdatedAt time.Time `json:"updated_at"`
}
