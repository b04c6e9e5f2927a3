package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	yaml "gopkg.in/yaml.v3"

	"github.com/lsst-dm/prodstatus/pkg/bpsconfig"
	"github.com/lsst-dm/prodstatus/pkg/exposures"
	"github.com/lsst-dm/prodstatus/pkg/jira"
)

const (
	jiraProject   = "DRP"
	jiraIssueType = "Task"
)

// ToJira persists the workflow into a tracking issue as attachments.
//
// With an empty issueKey the workflow's recorded tracking ticket is
// used; when that is empty too, a new issue is created. Same-named
// attachments are replaced only when replace is true. The issue key
// is recorded on the workflow and returned.
func (w *WorkflowSpec) ToJira(
	ctx context.Context,
	l *log.Logger,
	client jira.Client,
	issueKey string,
	replace bool,
) (string, error) {
	if l == nil {
		l = log.Default()
	}

	if issueKey == "" {
		issueKey = w.TrackingTicket
	}

	var issue jira.Issue
	if issueKey == "" {
		created, err := client.CreateIssue(ctx, jira.Fields{
			Project:     jiraProject,
			IssueType:   jiraIssueType,
			Summary:     w.Name,
			Description: fmt.Sprintf("Workflow %s", w.Name),
		})
		if err != nil {
			return "", err
		}
		issue = created
		l.Printf("created issue %s for workflow %s", issue.Key, w.Name)
	} else {
		fetched, err := client.GetIssue(ctx, issueKey)
		if err != nil {
			return "", err
		}
		issue = fetched
	}
	w.TrackingTicket = issue.Key

	configBuf := new(bytes.Buffer)
	if err := w.BaseConfig.Dump(configBuf); err != nil {
		return "", err
	}
	if err := jira.PutAttachment(
		ctx, l, client, issue, FileBPSConfig, configBuf.Bytes(), replace,
	); err != nil {
		return "", err
	}

	specBuf, err := yaml.Marshal(w.specFile())
	if err != nil {
		return "", err
	}
	if err := jira.PutAttachment(
		ctx, l, client, issue, FileSpec, specBuf, replace,
	); err != nil {
		return "", err
	}

	if w.Exposures != nil {
		expBuf := new(bytes.Buffer)
		if err := w.Exposures.Write(expBuf); err != nil {
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

// FromJira reconstructs a workflow from its tracking issue.
func FromJira(ctx context.Context, client jira.Client, issueKey string) (WorkflowSpec, error) {
	issue, err := client.GetIssue(ctx, issueKey)
	if err != nil {
		return WorkflowSpec{}, err
	}

	specBuf, err := jira.FetchAttachment(ctx, client, issue, FileSpec)
	if err != nil {
		if errors.Is(err, jira.ErrAttachmentNotFound) {
			return WorkflowSpec{}, fmt.Errorf(
				"%w: issue %s has no %s", ErrNotFound, issueKey, FileSpec,
			)
		}
		return WorkflowSpec{}, err
	}
	var spec specFile
	if err := yaml.Unmarshal(specBuf, &spec); err != nil {
		return WorkflowSpec{}, fmt.Errorf("%w: %s of issue %s: %s", ErrParse, FileSpec, issueKey, err)
	}

	configBuf, err := jira.FetchAttachment(ctx, client, issue, FileBPSConfig)
	if err != nil {
		if errors.Is(err, jira.ErrAttachmentNotFound) {
			return WorkflowSpec{}, fmt.Errorf(
				"%w: issue %s has no %s", ErrNotFound, issueKey, FileBPSConfig,
			)
		}
		return WorkflowSpec{}, err
	}
	config, err := bpsconfig.Parse(configBuf)
	if err != nil {
		return WorkflowSpec{}, err
	}

	w := WorkflowSpec{
		BaseConfig:     config,
		Name:           spec.Name,
		StepName:       spec.Step,
		Band:           spec.Band,
		TrackingTicket: issue.Key,
	}
	if w.Band == "" {
		w.Band = "all"
	}

	expBuf, err := jira.FetchAttachment(ctx, client, issue, FileExposures)
	if err == nil {
		exps, err := exposures.Parse(bytes.NewReader(expBuf))
		if err != nil {
			return WorkflowSpec{}, err
		}
		w.Exposures = exps
	} else if !errors.Is(err, jira.ErrAttachmentNotFound) {
		return WorkflowSpec{}, err
	}

	return w, nil
}
