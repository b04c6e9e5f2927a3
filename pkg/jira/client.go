package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

type client struct {
	httpclient *http.Client
	api        string
	token      string
}

// NewClient builds a Client for the Jira REST v2 API rooted at apiRoot
// (e.g. "https://jira.example.org/rest/api/2"), authenticating each
// request with the given bearer token. An empty token sends requests
// unauthenticated.
func NewClient(apiRoot string, token string) Client {
	return &client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(apiRoot, "/"),
		token:      token,
	}
}

// build URL with path
func (c *client) apipath(path ...string) string {
	parts := make([]string, 0, len(path)+1)
	parts = append(parts, c.api)
	for _, p := range path {
		parts = append(parts, strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/"))
	}
	return strings.Join(parts, "/")
}

func (c *client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpclient.Do(req)
}

type issueFields struct {
	Summary     string            `json:"summary"`
	Description string            `json:"description"`
	Attachment  []attachmentEntry `json:"attachment,omitempty"`
}

type attachmentEntry struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

type issueEnvelope struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

func (c *client) GetIssue(ctx context.Context, key string) (Issue, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet,
		c.apipath("issue", key)+"?fields=summary,description,attachment",
		nil,
	)
	if err != nil {
		return Issue{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return Issue{}, err
	}
	defer resp.Body.Close()

	var envelope issueEnvelope
	if err := unmarshalJsonResponse(
		resp, &envelope,
		MessageFor{
			Status4xx: fmt.Sprintf("issue %s is not found", key),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return Issue{}, err
	}
	return envelopeToIssue(envelope), nil
}

func envelopeToIssue(envelope issueEnvelope) Issue {
	issue := Issue{
		Key:         envelope.Key,
		Summary:     envelope.Fields.Summary,
		Description: envelope.Fields.Description,
	}
	for _, a := range envelope.Fields.Attachment {
		issue.Attachments = append(issue.Attachments, Attachment{
			ID: a.ID, Filename: a.Filename,
		})
	}
	return issue
}

func (c *client) CreateIssue(ctx context.Context, fields Fields) (Issue, error) {
	type component struct {
		Name string `json:"name"`
	}
	payload := map[string]any{
		"project":     map[string]string{"key": fields.Project},
		"issuetype":   map[string]string{"name": fields.IssueType},
		"summary":     fields.Summary,
		"description": fields.Description,
	}
	if len(fields.Components) != 0 {
		comps := make([]component, len(fields.Components))
		for i, name := range fields.Components {
			comps[i] = component{Name: name}
		}
		payload["components"] = comps
	}
	body, err := json.Marshal(map[string]any{"fields": payload})
	if err != nil {
		return Issue{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("issue"), bytes.NewReader(body),
	)
	if err != nil {
		return Issue{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return Issue{}, err
	}
	defer resp.Body.Close()

	var created struct {
		Key string `json:"key"`
	}
	if err := unmarshalJsonResponse(
		resp, &created,
		MessageFor{
			Status4xx: "cannot create issue",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return Issue{}, err
	}
	return Issue{
		Key:         created.Key,
		Summary:     fields.Summary,
		Description: fields.Description,
	}, nil
}

func (c *client) AddAttachment(
	ctx context.Context, key string, filename string, body io.Reader,
) (Attachment, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Attachment{}, err
	}
	if _, err := io.Copy(part, body); err != nil {
		return Attachment{}, err
	}
	if err := mw.Close(); err != nil {
		return Attachment{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("issue", key, "attachments"), buf,
	)
	if err != nil {
		return Attachment{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Atlassian-Token", "no-check")

	resp, err := c.do(req)
	if err != nil {
		return Attachment{}, err
	}
	defer resp.Body.Close()

	// Jira returns the attachments created by the request as an array.
	var created []attachmentEntry
	if err := unmarshalJsonResponse(
		resp, &created,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot attach %s to issue %s", filename, key),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return Attachment{}, err
	}
	if len(created) == 0 {
		return Attachment{}, fmt.Errorf("no attachment created for %s on issue %s", filename, key)
	}
	return Attachment{ID: created[0].ID, Filename: created[0].Filename}, nil
}

func (c *client) GetAttachment(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("attachment", id), nil,
	)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var meta struct {
		Content string `json:"content"`
	}
	if err := unmarshalJsonResponse(
		resp, &meta,
		MessageFor{
			Status4xx: fmt.Sprintf("attachment %s is not found", id),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}

	creq, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.Content, nil)
	if err != nil {
		return nil, err
	}
	cresp, err := c.do(creq)
	if err != nil {
		return nil, err
	}
	r, err := unmarshalStreamResponse(
		cresp,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot read content of attachment %s", id),
			Status5xx: fmt.Sprintf("server error (status code = %d)", cresp.StatusCode),
		},
	)
	if err != nil {
		cresp.Body.Close()
		return nil, err
	}
	return r, nil
}

func (c *client) DeleteAttachment(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodDelete, c.apipath("attachment", id), nil,
	)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot delete attachment %s", id),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}

func (c *client) UpdateDescription(ctx context.Context, key string, description string) error {
	body, err := json.Marshal(map[string]any{
		"fields": map[string]string{"description": description},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPut, c.apipath("issue", key), bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot update description of issue %s", key),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}
