// Package exposures holds ordered tables of (band, exposure id) pairs
// used to partition processing work.
package exposures

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

var ErrParse = errors.New("malformed exposure list")

// Exposure is one identified unit of input data, tagged with a band.
type Exposure struct {
	Band string
	ID   int64
}

// Set is an ordered table of exposures.
//
// Sets produced by Load/Parse are sorted by exposure id ascending.
// A nil Set means "no exposures known", which is distinct from an
// empty one.
type Set []Exposure

// Load reads a whitespace-delimited exposure list from a file.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads whitespace-delimited (band, exposure id) rows, one per
// line, no header. The result is sorted by exposure id ascending.
func Parse(r io.Reader) (Set, error) {
	set := Set{}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno += 1
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf(
				"%w: line %d: want 2 fields, got %d", ErrParse, lineno, len(fields),
			)
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: line %d: exposure id %q is not an integer", ErrParse, lineno, fields[1],
			)
		}
		set = append(set, Exposure{Band: fields[0], ID: id})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(set, func(i, j int) bool { return set[i].ID < set[j].ID })
	return set, nil
}

// FilterByBand returns the subset matching band. Band "all" returns
// the receiver unchanged.
func (s Set) FilterByBand(band string) Set {
	if band == "all" {
		return s
	}
	subset := Set{}
	for _, e := range s {
		if e.Band == band {
			subset = append(subset, e)
		}
	}
	return subset
}

// FilterByIDRange returns the subset with min <= id <= max.
func (s Set) FilterByIDRange(min, max int64) Set {
	subset := Set{}
	for _, e := range s {
		if min <= e.ID && e.ID <= max {
			subset = append(subset, e)
		}
	}
	return subset
}

// IDs returns the exposure ids in table order.
func (s Set) IDs() []int64 {
	ids := make([]int64, len(s))
	for i, e := range s {
		ids[i] = e.ID
	}
	return ids
}

// Write emits space-delimited rows in table order, no header.
func (s Set) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range s {
		if _, err := fmt.Fprintf(bw, "%s %d\n", e.Band, e.ID); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the set to a file, in the format Load reads back.
func (s Set) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Write(f)
}

// Equal checks both sets have the same rows in the same order.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
