package step

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	yaml "gopkg.in/yaml.v3"

	"github.com/lsst-dm/prodstatus/pkg/exposures"
	"github.com/lsst-dm/prodstatus/pkg/jira"
	"github.com/lsst-dm/prodstatus/pkg/workflow"
)

const (
	jiraProject   = "DRP"
	jiraIssueType = "Task"
)

// ToJira persists the step into a tracking issue.
//
// With cascade, every workflow is persisted first so its tracking
// ticket is known and recorded in the step's specification before
// step.yaml itself is attached; the parent never references a ticket
// that does not exist yet.
func (s *StepSpec) ToJira(
	ctx context.Context,
	l *log.Logger,
	client jira.Client,
	issueKey string,
	replace bool,
	cascade bool,
) (string, error) {
	if l == nil {
		l = log.Default()
	}

	if issueKey == "" {
		issueKey = s.TrackingTicket
	}

	var issue jira.Issue
	if issueKey == "" {
		created, err := client.CreateIssue(ctx, jira.Fields{
			Project:     jiraProject,
			IssueType:   jiraIssueType,
			Summary:     s.Name,
			Description: fmt.Sprintf("Step %s", s.Name),
		})
		if err != nil {
			return "", err
		}
		issue = created
		l.Printf("created issue %s for step %s", issue.Key, s.Name)
	} else {
		fetched, err := client.GetIssue(ctx, issueKey)
		if err != nil {
			return "", err
		}
		issue = fetched
	}
	s.TrackingTicket = issue.Key

	// WorkflowSpecs first, so the refs in step.yaml carry their keys.
	if cascade {
		for i := range s.Workflows {
			if _, err := s.Workflows[i].ToJira(ctx, l, client, "", replace); err != nil {
				return "", err
			}
		}
	}

	buf, err := yaml.Marshal(s.specFile())
	if err != nil {
		return "", err
	}
	if err := jira.PutAttachment(ctx, l, client, issue, FileSpec, buf, replace); err != nil {
		return "", err
	}

	if s.Exposures != nil {
		expBuf := new(bytes.Buffer)
		if err := s.Exposures.Write(expBuf); err != nil {
			return "", err
		}
		if err := jira.PutAttachment(
			ctx, l, client, issue, FileExposures, expBuf.Bytes(), replace,
		); err != nil {
			return "", err
		}
	}

	return issue.Key, nil
}

// FromJira reconstructs a step from its tracking issue, loading each
// workflow from its own issue. A declared workflow with no tracking
// ticket is skipped with a warning.
func FromJira(
	ctx context.Context,
	l *log.Logger,
	client jira.Client,
	issueKey string,
) (StepSpec, error) {
	if l == nil {
		l = log.Default()
	}

	issue, err := client.GetIssue(ctx, issueKey)
	if err != nil {
		return StepSpec{}, err
	}

	buf, err := jira.FetchAttachment(ctx, client, issue, FileSpec)
	if err != nil {
		if errors.Is(err, jira.ErrAttachmentNotFound) {
			return StepSpec{}, fmt.Errorf(
				"%w: issue %s has no %s", workflow.ErrNotFound, issueKey, FileSpec,
			)
		}
		return StepSpec{}, err
	}
	var spec specFile
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return StepSpec{}, fmt.Errorf(
			"%w: %s of issue %s: %s", workflow.ErrParse, FileSpec, issueKey, err,
		)
	}

	s := StepSpec{
		Name:           spec.Name,
		SplitBands:     spec.SplitBands,
		ExposureGroups: spec.ExposureGroups,
		TrackingTicket: issue.Key,
	}

	expBuf, err := jira.FetchAttachment(ctx, client, issue, FileExposures)
	if err == nil {
		exps, err := exposures.Parse(bytes.NewReader(expBuf))
		if err != nil {
			return StepSpec{}, err
		}
		s.Exposures = exps
	} else if !errors.Is(err, jira.ErrAttachmentNotFound) {
		return StepSpec{}, err
	}

	for _, ref := range spec.Workflows {
		if ref.TrackingTicket == "" {
			l.Printf(
				"cannot load workflow %s of step %s: no tracking ticket",
				ref.Name, s.Name,
			)
			continue
		}
		w, err := workflow.FromJira(ctx, client, ref.TrackingTicket)
		if err != nil {
			return StepSpec{}, err
		}
		s.Workflows = append(s.Workflows, w)
	}

	return s, nil
}
