// Package remote fetches workflow files from GitHub repositories so a
// repository can be audited without cloning it.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const workflowDir = ".github/workflows"

// Workflow is one fetched workflow file.
type Workflow struct {
	// Path is the path within the repository.
	Path    string
	Content []byte
}

// Fetcher downloads workflow files through the GitHub contents API.
type Fetcher struct {
	client *github.Client
}

// NewFetcher creates a fetcher. An empty token means unauthenticated access,
// which works for public repositories at a lower rate limit.
func NewFetcher(ctx context.Context, token string) *Fetcher {
	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		))
	}
	return &Fetcher{client: github.NewClient(httpClient)}
}

// NewFetcherWithClient creates a fetcher around an existing client. Tests
// use this to point the fetcher at a local server.
func NewFetcherWithClient(client *github.Client) *Fetcher {
	return &Fetcher{client: client}
}

// SplitRepo parses an "owner/repo" slug.
func SplitRepo(slug string) (owner, repo string, err error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected the form owner/repo", slug)
	}
	return parts[0], parts[1], nil
}

// FetchWorkflows downloads every YAML file under .github/workflows of the
// repository's default branch, in directory listing order.
func (f *Fetcher) FetchWorkflows(ctx context.Context, owner, repo string) ([]*Workflow, error) {
	_, entries, resp, err := f.client.Repositories.GetContents(ctx, owner, repo, workflowDir, nil)
	if err != nil {
		// A repository without workflows is not an error for the caller.
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("could not list %s of %s/%s: %w", workflowDir, owner, repo, err)
	}

	var workflows []*Workflow
	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		name := entry.GetName()
		if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
			continue
		}

		content, _, _, err := f.client.Repositories.GetContents(ctx, owner, repo, entry.GetPath(), nil)
		if err != nil {
			return nil, fmt.Errorf("could not fetch %s: %w", entry.GetPath(), err)
		}
		decoded, err := content.GetContent()
		if err != nil {
			return nil, fmt.Errorf("could not decode %s: %w", entry.GetPath(), err)
		}

		workflows = append(workflows, &Workflow{
			Path:    entry.GetPath(),
			Content: []byte(decoded),
		})
	}

	return workflows, nil
}
