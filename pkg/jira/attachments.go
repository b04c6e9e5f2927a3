package jira

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
)

// ErrAttachmentNotFound is returned by FetchAttachment when the issue
// carries no attachment with the wanted filename.
var ErrAttachmentNotFound = errors.New("attachment not found")

// PutAttachment uploads body to the issue under filename.
//
// When the issue already has an attachment with that filename, the
// old one is deleted first if replace is true; otherwise the upload
// is skipped and a warning logged.
func PutAttachment(
	ctx context.Context,
	l *log.Logger,
	c Client,
	issue Issue,
	filename string,
	body []byte,
	replace bool,
) error {
	if l == nil {
		l = log.Default()
	}
	for _, attachment := range issue.Attachments {
		if attachment.Filename != filename {
			continue
		}
		if !replace {
			l.Printf("%s already exists on %s; not saving", filename, issue.Key)
			return nil
		}
		l.Printf("replacing %s on %s", filename, issue.Key)
		if err := c.DeleteAttachment(ctx, attachment.ID); err != nil {
			return err
		}
	}

	_, err := c.AddAttachment(ctx, issue.Key, filename, bytes.NewReader(body))
	return err
}

// FetchAttachment downloads the content of the issue's attachment
// with the given filename.
func FetchAttachment(ctx context.Context, c Client, issue Issue, filename string) ([]byte, error) {
	for _, attachment := range issue.Attachments {
		if attachment.Filename != filename {
			continue
		}
		r, err := c.GetAttachment(ctx, attachment.ID)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	}
	return nil, fmt.Errorf("%w: %s on issue %s", ErrAttachmentNotFound, filename, issue.Key)
}
