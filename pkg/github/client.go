// Package github wraps the GitHub REST API behind the handful of
// operations the GitHub toolset exposes.
package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

type Client struct {
	gh *gh.Client
}

// NewClient builds an authenticated client. An empty token falls back to
// the GITHUB_PERSONAL_ACCESS_TOKEN environment variable.
func NewClient(token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_PERSONAL_ACCESS_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GITHUB_PERSONAL_ACCESS_TOKEN is not set")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{gh: gh.NewClient(tc)}, nil
}

// Repository is the summary shape the toolset renders.
type Repository struct {
	FullName    string
	Description string
	HTMLURL     string
	Stars       int
	Language    string
}

type Issue struct {
	Number  int
	Title   string
	State   string
	HTMLURL string
	User    string
}

func (c *Client) SearchRepositories(ctx context.Context, query string, page, perPage int) ([]Repository, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}
	result, _, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	repos := make([]Repository, len(result.Repositories))
	for i, r := range result.Repositories {
		repos[i] = convertRepository(r)
	}
	return repos, nil
}

func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	converted := convertRepository(r)
	return &converted, nil
}

func (c *Client) ListIssues(ctx context.Context, owner, repo, state string) ([]Issue, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	opts := &gh.IssueListByRepoOptions{State: state}
	issues, _, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, err
	}

	converted := make([]Issue, len(issues))
	for i, issue := range issues {
		converted[i] = convertIssue(issue)
	}
	return converted, nil
}

func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string) (*Issue, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	req := &gh.IssueRequest{Title: &title}
	if body != "" {
		req.Body = &body
	}

	issue, _, err := c.gh.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		return nil, err
	}
	converted := convertIssue(issue)
	return &converted, nil
}

func convertRepository(r *gh.Repository) Repository {
	if r == nil {
		return Repository{}
	}
	return Repository{
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		Stars:       r.GetStargazersCount(),
		Language:    r.GetLanguage(),
	}
}

func convertIssue(i *gh.Issue) Issue {
	if i == nil {
		return Issue{}
	}
	return Issue{
		Number:  i.GetNumber(),
		Title:   i.GetTitle(),
		State:   i.GetState(),
		HTMLURL: i.GetHTMLURL(),
		User:    i.GetUser().GetLogin(),
	}
}
