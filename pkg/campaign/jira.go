package campaign

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
	"github.com/lsst-dm/prodstatus/pkg/step"
	"github.com/lsst-dm/prodstatus/pkg/workflow"
)

const (
	jiraProject   = "DRP"
	jiraIssueType = "Task"
)

// ToJira persists the campaign into a tracking issue.
//
// With cascade, steps (and through them workflows) are persisted
// first, so every ref in campaign.yaml carries an already-existing
// ticket by the time the attachment is written.
func (c *CampaignSpec) ToJira(
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
		issueKey = c.TrackingTicket
	}

	var issue jira.Issue
	if issueKey == "" {
		created, err := client.CreateIssue(ctx, jira.Fields{
			Project:     jiraProject,
			IssueType:   jiraIssueType,
			Summary:     c.Name,
			Description: fmt.Sprintf("Campaign %s", c.Name),
		})
		if err != nil {
			return "", err
		}
		issue = created
		l.Printf("created issue %s for campaign %s", issue.Key, c.Name)
	} else {
		fetched, err := client.GetIssue(ctx, issueKey)
		if err != nil {
			return "", err
		}
		issue = fetched
	}
	c.TrackingTicket = issue.Key

	if cascade {
		for i := range c.Steps {
			if _, err := c.Steps[i].ToJira(ctx, l, client, "", replace, true); err != nil {
				return "", err
			}
		}
	}

	buf, err := yaml.Marshal(c.specFile())
	if err != nil {
		return "", err
	}
	if err := jira.PutAttachment(ctx, l, client, issue, FileSpec, buf, replace); err != nil {
		return "", err
	}

	configBuf := new(bytes.Buffer)
	if err := c.BaseConfig.Dump(configBuf); err != nil {
		return "", err
	}
	if err := jira.PutAttachment(
		ctx, l, client, issue, FileBPSConfig, configBuf.Bytes(), replace,
	); err != nil {
		return "", err
	}

	if c.Exposures != nil {
		expBuf := new(bytes.Buffer)
		if err := c.Exposures.Write(expBuf); err != nil {
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

// FromJira reconstructs a campaign from its tracking issue, loading
// each step (and its workflows) from their own issues. A declared
// step with no tracking ticket is skipped with a warning.
func FromJira(
	ctx context.Context,
	l *log.Logger,
	client jira.Client,
	issueKey string,
) (CampaignSpec, error) {
	if l == nil {
		l = log.Default()
	}

	issue, err := client.GetIssue(ctx, issueKey)
	if err != nil {
		return CampaignSpec{}, err
	}

	buf, err := jira.FetchAttachment(ctx, client, issue, FileSpec)
	if err != nil {
		if errors.Is(err, jira.ErrAttachmentNotFound) {
			return CampaignSpec{}, fmt.Errorf(
				"%w: issue %s has no %s", workflow.ErrNotFound, issueKey, FileSpec,
			)
		}
		return CampaignSpec{}, err
	}
	var spec specFile
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return CampaignSpec{}, fmt.Errorf(
			"%w: %s of issue %s: %s", workflow.ErrParse, FileSpec, issueKey, err,
		)
	}

	configBuf, err := jira.FetchAttachment(ctx, client, issue, FileBPSConfig)
	if err != nil {
		if errors.Is(err, jira.ErrAttachmentNotFound) {
			return CampaignSpec{}, fmt.Errorf(
				"%w: issue %s has no %s", workflow.ErrNotFound, issueKey, FileBPSConfig,
			)
		}
		return CampaignSpec{}, err
	}
	config, err := bpsconfig.Parse(configBuf)
	if err != nil {
		return CampaignSpec{}, err
	}

	c := CampaignSpec{
		Name:           spec.Name,
		BaseConfig:     config,
		TrackingTicket: issue.Key,
	}

	expBuf, err := jira.FetchAttachment(ctx, client, issue, FileExposures)
	if err == nil {
		exps, err := exposures.Parse(bytes.NewReader(expBuf))
		if err != nil {
			return CampaignSpec{}, err
		}
		c.Exposures = exps
	} else if !errors.Is(err, jira.ErrAttachmentNotFound) {
		return CampaignSpec{}, err
	}

	for _, ref := range spec.Steps {
		if ref.TrackingTicket == "" {
			l.Printf(
				"cannot load step %s of campaign %s: no tracking ticket",
				ref.Name, c.Name,
			)
			continue
		}
		s, err := step.FromJira(ctx, l, client, ref.TrackingTicket)
		if err != nil {
			return CampaignSpec{}, err
		}
		c.Steps = append(c.Steps, s)
	}

	return c, nil
}
