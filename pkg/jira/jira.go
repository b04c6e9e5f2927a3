// Package jira is the tracking-issue client used to persist campaign
// trees as linked issues with attachments.
//
// The persistence adapters in pkg/workflow, pkg/step and pkg/campaign
// only depend on the Client interface; the REST implementation here
// talks to a Jira server's v2 API.
package jira

import (
	"context"
	"io"
)

// Attachment identifies one file attached to an issue.
type Attachment struct {
	ID       string
	Filename string
}

// Issue is the subset of an issue the persistence adapters read.
type Issue struct {
	Key         string
	Summary     string
	Description string
	Attachments []Attachment
}

// Fields describes a new issue to create.
type Fields struct {
	Project     string
	IssueType   string
	Summary     string
	Description string
	Components  []string
}

// Client is a connection to the tracking-issue store.
//
// Implementations do not retry; network and server errors propagate
// to the caller as-is.
type Client interface {
	// GetIssue fetches an issue, including its attachment listing.
	GetIssue(ctx context.Context, key string) (Issue, error)

	// CreateIssue creates a new issue and returns it.
	CreateIssue(ctx context.Context, fields Fields) (Issue, error)

	// AddAttachment attaches body to the issue under filename.
	AddAttachment(ctx context.Context, key string, filename string, body io.Reader) (Attachment, error)

	// GetAttachment streams the content of an attachment by id.
	GetAttachment(ctx context.Context, id string) (io.ReadCloser, error)

	// DeleteAttachment removes an attachment by id.
	DeleteAttachment(ctx context.Context, id string) error

	// UpdateDescription replaces the issue's description.
	UpdateDescription(ctx context.Context, key string, description string) error
}
