// Package panda scrapes workflow and task status from the PanDA
// monitoring API.
//
// Every query is a bounded retry loop around a single HTTP GET; a
// request that keeps failing surfaces its last error.
package panda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lsst-dm/prodstatus/pkg/utils/retry"
)

const DefaultBaseURL = "http://panda-doma.cern.ch"

// Workflow is one row of the wfprogress listing.
type Workflow struct {
	Name           string         `json:"r_name"`
	Status         string         `json:"r_status"`
	CreatedAt      string         `json:"created_at"`
	TotalTasks     int            `json:"total_tasks"`
	TotalFiles     int            `json:"total_files"`
	RemainingFiles int            `json:"remaining_files"`
	ProcessedFiles int            `json:"processed_files"`
	TaskStatuses   map[string]int `json:"tasks_statuses"`
}

// Task is one row of the per-workflow task listing.
type Task struct {
	JediTaskID int64  `json:"jeditaskid"`
	Name       string `json:"taskname"`
	Status     string `json:"status"`
}

// Scraper queries the PanDA monitoring endpoints.
type Scraper struct {
	// BaseURL of the monitor; DefaultBaseURL when empty.
	BaseURL string

	// Client used for requests; http.DefaultClient when nil.
	Client *http.Client

	// Attempts bounds how many times one GET is tried; 3 when zero.
	Attempts int

	// Backoff waits between attempts; a fixed 2s when nil.
	Backoff retry.Backoff
}

func (s *Scraper) base() string {
	if s.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(s.BaseURL, "/")
}

func (s *Scraper) httpclient() *http.Client {
	if s.Client == nil {
		return http.DefaultClient
	}
	return s.Client
}

func (s *Scraper) attempts() int {
	if s.Attempts <= 0 {
		return 3
	}
	return s.Attempts
}

func (s *Scraper) backoff() retry.Backoff {
	if s.Backoff == nil {
		return retry.StaticBackoff(2 * time.Second)
	}
	return s.Backoff
}

// GetWorkflows fetches the full wfprogress listing.
func (s *Scraper) GetWorkflows(ctx context.Context) ([]Workflow, error) {
	var workflows []Workflow
	if err := s.getJSON(ctx, s.base()+"/idds/wfprogress/?json", &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

// FindWorkflows fetches the listing filtered to names containing
// search (case-insensitive).
func (s *Scraper) FindWorkflows(ctx context.Context, search string) ([]Workflow, error) {
	workflows, err := s.GetWorkflows(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(search)
	found := []Workflow{}
	for _, wf := range workflows {
		if strings.Contains(strings.ToLower(wf.Name), needle) {
			found = append(found, wf)
		}
	}
	return found, nil
}

// GetTasks fetches the tasks of the named workflow.
func (s *Scraper) GetTasks(ctx context.Context, workflowName string) ([]Task, error) {
	var tasks []Task
	uri := fmt.Sprintf(
		"%s/tasks/?taskname=%s*&days=120&json",
		s.base(), url.QueryEscape(workflowName),
	)
	if err := s.getJSON(ctx, uri, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Scraper) getJSON(ctx context.Context, uri string, v any) error {
	attempts := 0
	_, err := retry.Blocking(ctx, s.backoff(), func() (struct{}, error) {
		attempts += 1
		err := s.fetch(ctx, uri, v)
		if err != nil && attempts < s.attempts() {
			return struct{}{}, fmt.Errorf("%w: %s", retry.ErrRetry, err)
		}
		return struct{}{}, err
	})
	return err
}

func (s *Scraper) fetch(ctx context.Context, uri string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpclient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, uri)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
