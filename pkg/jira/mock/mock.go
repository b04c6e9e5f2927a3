package mock

import (
	"context"
	"io"
	"testing"

	"github.com/lsst-dm/prodstatus/pkg/jira"
)

type AddAttachmentArgs struct {
	Key      string
	Filename string
	Body     []byte
}

type UpdateDescriptionArgs struct {
	Key         string
	Description string
}

func New(t *testing.T) *mockClient {
	return &mockClient{t: t}
}

type mockClient struct {
	t    *testing.T
	Impl struct {
		GetIssue          func(ctx context.Context, key string) (jira.Issue, error)
		CreateIssue       func(ctx context.Context, fields jira.Fields) (jira.Issue, error)
		AddAttachment     func(ctx context.Context, key string, filename string, body io.Reader) (jira.Attachment, error)
		GetAttachment     func(ctx context.Context, id string) (io.ReadCloser, error)
		DeleteAttachment  func(ctx context.Context, id string) error
		UpdateDescription func(ctx context.Context, key string, description string) error
	}
	Calls struct {
		GetIssue          []string
		CreateIssue       []jira.Fields
		AddAttachment     []AddAttachmentArgs
		GetAttachment     []string
		DeleteAttachment  []string
		UpdateDescription []UpdateDescriptionArgs
	}
}

var _ jira.Client = &mockClient{}

func (m *mockClient) GetIssue(ctx context.Context, key string) (jira.Issue, error) {
	m.t.Helper()
	if m.Impl.GetIssue == nil {
		m.t.Fatal("GetIssue is not ready to be called")
	}
	m.Calls.GetIssue = append(m.Calls.GetIssue, key)
	return m.Impl.GetIssue(ctx, key)
}

func (m *mockClient) CreateIssue(ctx context.Context, fields jira.Fields) (jira.Issue, error) {
	m.t.Helper()
	if m.Impl.CreateIssue == nil {
		m.t.Fatal("CreateIssue is not ready to be called")
	}
	m.Calls.CreateIssue = append(m.Calls.CreateIssue, fields)
	return m.Impl.CreateIssue(ctx, fields)
}

func (m *mockClient) AddAttachment(
	ctx context.Context, key string, filename string, body io.Reader,
) (jira.Attachment, error) {
	m.t.Helper()
	if m.Impl.AddAttachment == nil {
		m.t.Fatal("AddAttachment is not ready to be called")
	}
	buf, err := io.ReadAll(body)
	if err != nil {
		m.t.Fatal(err)
	}
	m.Calls.AddAttachment = append(m.Calls.AddAttachment, AddAttachmentArgs{
		Key: key, Filename: filename, Body: buf,
	})
	return m.Impl.AddAttachment(ctx, key, filename, body)
}

func (m *mockClient) GetAttachment(ctx context.Context, id string) (io.ReadCloser, error) {
	m.t.Helper()
	if m.Impl.GetAttachment == nil {
		m.t.Fatal("GetAttachment is not ready to be called")
	}
	m.Calls.GetAttachment = append(m.Calls.GetAttachment, id)
	return m.Impl.GetAttachment(ctx, id)
}

func (m *mockClient) DeleteAttachment(ctx context.Context, id string) error {
	m.t.Helper()
	if m.Impl.DeleteAttachment == nil {
		m.t.Fatal("DeleteAttachment is not ready to be called")
	}
	m.Calls.DeleteAttachment = append(m.Calls.DeleteAttachment, id)
	return m.Impl.DeleteAttachment(ctx, id)
}

func (m *mockClient) UpdateDescription(ctx context.Context, key string, description string) error {
	m.t.Helper()
	if m.Impl.UpdateDescription == nil {
		m.t.Fatal("UpdateDescription is not ready to be called")
	}
	m.Calls.UpdateDescription = append(m.Calls.UpdateDescription, UpdateDescriptionArgs{
		Key: key, Description: description,
	})
	return m.Impl.UpdateDescription(ctx, key, description)
}
