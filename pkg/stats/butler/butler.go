// Package butler builds timing statistics from the metadata YAML
// files pipeline tasks leave behind.
package butler

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Metadata is the timing data of one quantum: the largest CPU time
// and resident set size recorded across the task's methods.
type Metadata struct {
	CPUTime float64
	MaxRSS  float64
	Start   string
}

// ParseMetadata reads one task-metadata YAML document.
//
// The document maps method names to metric mappings; keys containing
// "EndCpuTime" contribute CPU time, keys containing
// "MaxResidentSetSize" contribute RSS, and "startUtc" the start
// stamp. The maximum over all methods wins.
func ParseMetadata(r io.Reader) (Metadata, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Metadata{}, err
	}
	doc := map[string]map[string]any{}
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return Metadata{}, err
	}

	md := Metadata{}
	for _, metrics := range doc {
		for key, value := range metrics {
			switch {
			case strings.Contains(key, "EndCpuTime"), strings.Contains(key, "endCpuTime"):
				if v, ok := asFloat(value); ok && v > md.CPUTime {
					md.CPUTime = v
				}
			case strings.Contains(key, "MaxResidentSetSize"):
				if v, ok := asFloat(value); ok && v > md.MaxRSS {
					md.MaxRSS = v
				}
			case key == "startUtc":
				if s, ok := value.(string); ok && md.Start == "" {
					// metadata stamps carry "T" between date and time
					md.Start = strings.Replace(s, "T", " ", 1)
				}
			}
		}
	}
	return md, nil
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

// TaskStats aggregates the quanta of one task.
type TaskStats struct {
	// NQuanta counts the metadata files seen for the task.
	NQuanta int

	// CPUPerQuantum is mean CPU seconds per quantum.
	CPUPerQuantum float64

	// CPUHours is total CPU time over all quanta, in hours.
	CPUHours float64

	// MaxRSSGB is the largest resident set seen, in gigabytes.
	MaxRSSGB float64

	// Start is the earliest start stamp seen.
	Start string
}

// CollectDir walks a metadata tree laid out as
// {root}/{task}/.../*.yaml and aggregates per-task statistics.
func CollectDir(root string) (map[string]TaskStats, error) {
	type accum struct {
		n      int
		cpuSum float64
		maxRSS float64
		start  string
	}
	byTask := map[string]*accum{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		task := strings.Split(rel, string(filepath.Separator))[0]
		if task == "." {
			task = strings.TrimSuffix(d.Name(), ".yaml")
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		md, err := ParseMetadata(f)
		f.Close()
		if err != nil {
			return err
		}

		a, ok := byTask[task]
		if !ok {
			a = &accum{}
			byTask[task] = a
		}
		a.n += 1
		a.cpuSum += md.CPUTime
		if md.MaxRSS > a.maxRSS {
			a.maxRSS = md.MaxRSS
		}
		if a.start == "" || (md.Start != "" && md.Start < a.start) {
			a.start = md.Start
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := map[string]TaskStats{}
	for task, a := range byTask {
		s := TaskStats{
			NQuanta:  a.n,
			CPUHours: a.cpuSum / 3600.0,
			MaxRSSGB: a.maxRSS / 1048576.0,
			Start:    a.start,
		}
		if a.n > 0 {
			s.CPUPerQuantum = a.cpuSum / float64(a.n)
		}
		stats[task] = s
	}
	return stats, nil
}

// TaskNames returns the collected task names sorted.
func TaskNames(stats map[string]TaskStats) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
