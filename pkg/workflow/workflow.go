// Package workflow holds the smallest unit of submitted processing
// work: a BPS configuration plus an optional exposure subset, and the
// rules splitting one workflow into many by band or exposure group.
package workflow

import (
	"errors"
	"strings"

	"github.com/lsst-dm/prodstatus/pkg/bpsconfig"
	"github.com/lsst-dm/prodstatus/pkg/exposures"
)

const (
	// FileBPSConfig is the BPS configuration filename inside a
	// persisted workflow directory (and as a Jira attachment).
	FileBPSConfig = "bps_config.yaml"

	// FileSpec is the workflow specification filename.
	FileSpec = "workflow.yaml"

	// FileExposures is the exposure list filename.
	FileExposures = "explist.csv"

	// DefaultBands is the band alphabet workflows split over.
	DefaultBands = "ugrizy"
)

var (
	// ErrNoExposures is returned when an exposure-dependent split is
	// requested on a workflow with no exposure set.
	ErrNoExposures = errors.New("workflow has no exposures")

	// ErrNotFound is returned when a persisted specification file,
	// attachment, or declared child is absent on load.
	ErrNotFound = errors.New("not found")

	// ErrParse is returned when a persisted specification file does
	// not parse.
	ErrParse = errors.New("malformed specification")
)

// WorkflowSpec is one unit of processing: a base configuration plus
// an optional exposure subset, a band tag, and linkage to its step
// and tracking ticket.
//
// A WorkflowSpec is owned by at most one step. After construction it
// is only mutated by recording a tracking ticket once the workflow is
// persisted to the issue tracker.
type WorkflowSpec struct {
	BaseConfig *bpsconfig.Config

	Name     string
	StepName string

	// Band is one letter of the band alphabet, or "all".
	Band string

	// Exposures is the subset of exposures this workflow covers.
	// nil means no exposure set is known, which is distinct from an
	// empty set.
	Exposures exposures.Set

	TrackingTicket string
}

// New constructs a workflow over config with band "all".
func New(config *bpsconfig.Config, name string) WorkflowSpec {
	return WorkflowSpec{BaseConfig: config, Name: name, Band: "all"}
}

// dataQuery reads the selection predicate from the BPS configuration.
func (w *WorkflowSpec) dataQuery() string {
	q, _ := w.BaseConfig.GetString("payload", "dataQuery")
	return q
}

// conjoinQuery builds "(base) and (clause) and ..." with each term
// parenthesized. An empty base is omitted.
func conjoinQuery(base string, clauses ...string) string {
	terms := make([]string, 0, len(clauses)+1)
	if base != "" {
		terms = append(terms, "("+base+")")
	}
	for _, c := range clauses {
		terms = append(terms, "("+c+")")
	}
	return strings.Join(terms, " and ")
}
