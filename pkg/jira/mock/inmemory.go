package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/lsst-dm/prodstatus/pkg/jira"
)

// InMemory is a stateful fake issue store.
//
// Created issues get keys "{project}-1", "{project}-2", ... .
// Useful for cascade round-trip tests where the mock-function style
// client would need too much bookkeeping.
type InMemory struct {
	Issues      map[string]*jira.Issue
	Contents    map[string][]byte
	nextIssue   int
	nextAttachN int
}

var _ jira.Client = &InMemory{}

func NewInMemory() *InMemory {
	return &InMemory{
		Issues:   map[string]*jira.Issue{},
		Contents: map[string][]byte{},
	}
}

func (s *InMemory) GetIssue(_ context.Context, key string) (jira.Issue, error) {
	issue, ok := s.Issues[key]
	if !ok {
		return jira.Issue{}, fmt.Errorf("issue %s is not found", key)
	}
	return *issue, nil
}

func (s *InMemory) CreateIssue(_ context.Context, fields jira.Fields) (jira.Issue, error) {
	s.nextIssue += 1
	project := fields.Project
	if project == "" {
		project = "DRP"
	}
	issue := &jira.Issue{
		Key:         fmt.Sprintf("%s-%d", project, s.nextIssue),
		Summary:     fields.Summary,
		Description: fields.Description,
	}
	s.Issues[issue.Key] = issue
	return *issue, nil
}

func (s *InMemory) AddAttachment(
	_ context.Context, key string, filename string, body io.Reader,
) (jira.Attachment, error) {
	issue, ok := s.Issues[key]
	if !ok {
		return jira.Attachment{}, fmt.Errorf("issue %s is not found", key)
	}
	buf, err := io.ReadAll(body)
	if err != nil {
		return jira.Attachment{}, err
	}
	s.nextAttachN += 1
	attachment := jira.Attachment{
		ID:       fmt.Sprintf("%d", s.nextAttachN),
		Filename: filename,
	}
	issue.Attachments = append(issue.Attachments, attachment)
	s.Contents[attachment.ID] = buf
	return attachment, nil
}

func (s *InMemory) GetAttachment(_ context.Context, id string) (io.ReadCloser, error) {
	buf, ok := s.Contents[id]
	if !ok {
		return nil, fmt.Errorf("attachment %s is not found", id)
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}

func (s *InMemory) DeleteAttachment(_ context.Context, id string) error {
	if _, ok := s.Contents[id]; !ok {
		return fmt.Errorf("attachment %s is not found", id)
	}
	delete(s.Contents, id)
	for _, issue := range s.Issues {
		kept := issue.Attachments[:0]
		for _, a := range issue.Attachments {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		issue.Attachments = kept
	}
	return nil
}

func (s *InMemory) UpdateDescription(_ context.Context, key string, description string) error {
	issue, ok := s.Issues[key]
	if !ok {
		return fmt.Errorf("issue %s is not found", key)
	}
	issue.Description = description
	return nil
}
