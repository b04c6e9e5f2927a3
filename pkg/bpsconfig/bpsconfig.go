// Package bpsconfig holds BPS submission configurations as opaque
// nested key-value documents.
//
// A Config is a value type: specializing it for a step or workflow
// always goes through Copy, never through in-place mutation of a
// shared instance.
package bpsconfig

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v3"
)

var ErrParse = errors.New("malformed BPS configuration")

// Config is a nested key-value BPS configuration.
type Config struct {
	values map[string]any
}

// New returns a Config over the given values. The map is not copied;
// the caller hands over ownership.
func New(values map[string]any) *Config {
	if values == nil {
		values = map[string]any{}
	}
	return &Config{values: values}
}

// Load reads a YAML configuration from a file.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

// Parse reads a YAML configuration from bytes.
func Parse(buf []byte) (*Config, error) {
	values := map[string]any{}
	if err := yaml.Unmarshal(buf, &values); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}
	return &Config{values: values}, nil
}

// Copy returns a deep copy. Mutating the copy never affects the receiver.
func (c *Config) Copy() *Config {
	return &Config{values: copyMap(c.values)}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = copyValue(e)
		}
		return out
	default:
		return val
	}
}

// GetString reads a string value at the given key path.
//
// The second return is false when the path does not exist or the
// value there is not a string.
func (c *Config) GetString(path ...string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	cursor := c.values
	for _, key := range path[:len(path)-1] {
		next, ok := cursor[key].(map[string]any)
		if !ok {
			return "", false
		}
		cursor = next
	}
	s, ok := cursor[path[len(path)-1]].(string)
	return s, ok
}

// SetString writes a string value at the given key path, creating
// intermediate mappings as needed. A non-mapping found midway is
// replaced.
func (c *Config) SetString(value string, path ...string) {
	if len(path) == 0 {
		return
	}
	cursor := c.values
	for _, key := range path[:len(path)-1] {
		next, ok := cursor[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cursor[key] = next
		}
		cursor = next
	}
	cursor[path[len(path)-1]] = value
}

// Dump writes the configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.values); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Save writes the configuration as YAML to a file.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Dump(f)
}

// Equal checks both configurations hold the same values.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return equalValue(c.values, other.values)
}

func equalValue(a, b any) bool {
	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, v := range va {
			w, ok := vb[k]
			if !ok || !equalValue(v, w) {
				return false
			}
		}
		return true
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !equalValue(va[i], vb[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
