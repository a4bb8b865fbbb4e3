package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcpline/mcpline/mcp"
	"github.com/mcpline/mcpline/pkg/github"
)

// PopulateGitHubTools registers a minimal GitHub tool surface backed by the
// real GitHub API. It intentionally focuses on discovery-relevant
// operations.
func (r *Registry) PopulateGitHubTools(c *github.Client) {
	if c == nil {
		return
	}

	r.Register(mcp.NewTool(
		"search_repositories",
		"Search GitHub repositories (backed by go-github).",
		mcp.ObjectSchema(map[string]any{
			"query":    map[string]any{"type": "string", "description": "Search query."},
			"page":     map[string]any{"type": "integer", "description": "Result page, starting at 1."},
			"per_page": map[string]any{"type": "integer", "description": "Results per page."},
		}, "query"),
		func(ctx context.Context, args map[string]any) (any, error) {
			repos, err := c.SearchRepositories(ctx, stringArg(args, "query"), intArg(args, "page"), intArg(args, "per_page"))
			if err != nil {
				return nil, err
			}

			var b strings.Builder
			b.WriteString("Search results:\n")
			for i, repo := range repos {
				if i >= 5 {
					break
				}
				fmt.Fprintf(&b, "- %s (%s): %s\n", repo.FullName, repo.HTMLURL, strings.TrimSpace(repo.Description))
			}
			return mcp.TextResult(strings.TrimSpace(b.String())), nil
		},
	))

	r.Register(mcp.NewTool(
		"get_repository",
		"Fetch a single GitHub repository by owner and name.",
		mcp.ObjectSchema(map[string]any{
			"owner": map[string]any{"type": "string", "description": "Repository owner."},
			"repo":  map[string]any{"type": "string", "description": "Repository name."},
		}, "owner", "repo"),
		func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := c.GetRepository(ctx, stringArg(args, "owner"), stringArg(args, "repo"))
			if err != nil {
				return nil, err
			}
			text := fmt.Sprintf("%s (%s)\nStars: %d  Language: %s\n%s",
				repo.FullName, repo.HTMLURL, repo.Stars, repo.Language, strings.TrimSpace(repo.Description))
			return mcp.TextResult(strings.TrimSpace(text)), nil
		},
	))

	r.Register(mcp.NewTool(
		"list_issues",
		"List issues in a GitHub repository.",
		mcp.ObjectSchema(map[string]any{
			"owner": map[string]any{"type": "string", "description": "Repository owner."},
			"repo":  map[string]any{"type": "string", "description": "Repository name."},
			"state": map[string]any{"type": "string", "description": "Issue state: open, closed or all."},
		}, "owner", "repo"),
		func(ctx context.Context, args map[string]any) (any, error) {
			issues, err := c.ListIssues(ctx, stringArg(args, "owner"), stringArg(args, "repo"), stringArg(args, "state"))
			if err != nil {
				return nil, err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d issues:\n", len(issues))
			for _, issue := range issues {
				fmt.Fprintf(&b, "- #%d [%s] %s (%s)\n", issue.Number, issue.State, issue.Title, issue.User)
			}
			return mcp.TextResult(strings.TrimSpace(b.String())), nil
		},
	))

	r.Register(mcp.NewTool(
		"create_issue",
		"Create a GitHub issue in a repository (requires GITHUB_PERSONAL_ACCESS_TOKEN).",
		mcp.ObjectSchema(map[string]any{
			"owner": map[string]any{"type": "string", "description": "Repository owner."},
			"repo":  map[string]any{"type": "string", "description": "Repository name."},
			"title": map[string]any{"type": "string", "description": "Issue title."},
			"body":  map[string]any{"type": "string", "description": "Issue body."},
		}, "owner", "repo", "title"),
		func(ctx context.Context, args map[string]any) (any, error) {
			issue, err := c.CreateIssue(ctx, stringArg(args, "owner"), stringArg(args, "repo"),
				stringArg(args, "title"), stringArg(args, "body"))
			if err != nil {
				return nil, err
			}
			return mcp.TextResult(fmt.Sprintf("Created issue #%d: %s", issue.Number, issue.HTMLURL)), nil
		},
	))
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// intArg reads a numeric argument; decoded JSON numbers arrive as float64.
func intArg(args map[string]any, key string) int {
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	return 0
}
