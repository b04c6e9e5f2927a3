package workflow

import (
	"fmt"
	"sort"

	"github.com/lsst-dm/prodstatus/pkg/exposures"
)

// GroupPolicy parameterizes splitting a workflow by exposure group.
type GroupPolicy struct {
	// GroupSize is the approximate number of exposures per child.
	// Zero means no split.
	GroupSize int `yaml:"group_size"`

	// SkipGroups drops that many leading groups after the split.
	SkipGroups int `yaml:"skip_groups,omitempty"`

	// NumGroups caps how many groups remain after skipping.
	// Zero means all.
	NumGroups int `yaml:"num_groups,omitempty"`
}

// SplitByBand partitions the workflow into one child per letter of
// bands. Each child's selection predicate gains a band-equality
// clause and its exposures are filtered to the band (nil stays nil).
//
// The result always has len(bands) children; dropping empty ones is
// the caller's business.
func (w WorkflowSpec) SplitByBand(bands string) []WorkflowSpec {
	baseQuery := w.dataQuery()

	children := make([]WorkflowSpec, 0, len(bands))
	for _, b := range bands {
		band := string(b)
		config := w.BaseConfig.Copy()
		config.SetString(
			conjoinQuery(baseQuery, fmt.Sprintf("band == '%s'", band)),
			"payload", "dataQuery",
		)

		var exps exposures.Set
		if w.Exposures != nil {
			exps = w.Exposures.FilterByBand(band)
		}

		children = append(children, WorkflowSpec{
			BaseConfig: config,
			Name:       fmt.Sprintf("%s_%s", w.Name, band),
			StepName:   w.StepName,
			Band:       band,
			Exposures:  exps,
		})
	}
	return children
}

// SplitByExposure partitions the workflow into contiguous exposure-id
// groups.
//
// The exposure ids are sorted ascending and divided into
// ceil(count/groupSize) groups of as equal size as possible (the
// leading groups are larger by one when the division is uneven).
// Each child covers one group's inclusive id range: its selection
// predicate gains "exposure >= min and exposure <= max" clauses and
// its exposures are the parent's filtered to that range. Children are
// named "{parent}_{i}" with i counting from 1 before any skipping.
//
// A groupSize of zero, or one not strictly between 0 and the exposure
// count, yields the workflow unchanged. skipGroups leading groups are
// dropped after naming; numGroups then caps the remainder (zero means
// no cap). Skipping past the last group yields an empty list.
func (w WorkflowSpec) SplitByExposure(groupSize, skipGroups, numGroups int) ([]WorkflowSpec, error) {
	if w.Exposures == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoExposures, w.Name)
	}

	if groupSize <= 0 || len(w.Exposures) <= groupSize {
		return []WorkflowSpec{w}, nil
	}

	ids := w.Exposures.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	baseQuery := w.dataQuery()
	groups := balancedSplit(ids, groupSize)

	children := make([]WorkflowSpec, 0, len(groups))
	for i, group := range groups {
		minID := group[0]
		maxID := group[len(group)-1]

		config := w.BaseConfig.Copy()
		config.SetString(
			conjoinQuery(
				baseQuery,
				fmt.Sprintf("exposure >= %d", minID),
				fmt.Sprintf("exposure <= %d", maxID),
			),
			"payload", "dataQuery",
		)

		children = append(children, WorkflowSpec{
			BaseConfig: config,
			Name:       fmt.Sprintf("%s_%d", w.Name, i+1),
			StepName:   w.StepName,
			Band:       w.Band,
			Exposures:  w.Exposures.FilterByIDRange(minID, maxID),
		})
	}

	if len(children) <= skipGroups {
		return []WorkflowSpec{}, nil
	}
	children = children[skipGroups:]
	if numGroups > 0 && numGroups < len(children) {
		children = children[:numGroups]
	}
	return children, nil
}

// balancedSplit divides sorted ids into ceil(len/size) groups whose
// sizes differ by at most one, larger groups first.
func balancedSplit(ids []int64, size int) [][]int64 {
	n := (len(ids) + size - 1) / size
	small := len(ids) / n
	big := len(ids) % n // this many groups get one extra element

	groups := make([][]int64, 0, n)
	at := 0
	for i := 0; i < n; i++ {
		take := small
		if i < big {
			take += 1
		}
		groups = append(groups, ids[at:at+take])
		at += take
	}
	return groups
}
