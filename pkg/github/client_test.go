package github

import (
	"context"
	"strings"
	"testing"
)

func TestNewClientRequiresToken(t *testing.T) {
	t.Setenv("GITHUB_PERSONAL_ACCESS_TOKEN", "")
	_, err := NewClient("")
	if err == nil {
		t.Fatal("expected error when token is missing")
	}
	if !strings.Contains(err.Error(), "GITHUB_PERSONAL_ACCESS_TOKEN") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIssueRejectsEmptyTitleBeforeNetworkCall(t *testing.T) {
	c := &Client{}
	_, err := c.CreateIssue(context.Background(), "o", "r", "  ", "")
	if err == nil {
		t.Fatal("expected validation error for empty title")
	}
	if !strings.Contains(err.Error(), "title is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchRepositoriesRejectsEmptyQuery(t *testing.T) {
	c := &Client{}
	_, err := c.SearchRepositories(context.Background(), "   ", 0, 0)
	if err == nil {
		t.Fatal("expected validation error for empty query")
	}
	if !strings.Contains(err.Error(), "query is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}
