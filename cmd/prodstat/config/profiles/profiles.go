// Package profiles stores named Jira connection settings in a
// per-user YAML file.
package profiles

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

var ErrProfileStoreNotFound = errors.New("profile store file is not found")
var ErrProfileNotFound = errors.New("profile is not found")
var ErrProfileInvalid = errors.New("prodstat profile is invalid")

// DefaultStorePath is where the profile store lives unless overridden:
// {home}/.prodstat/profiles .
func DefaultStorePath(home string) string {
	return filepath.Join(home, ".prodstat", "profiles")
}

// ProfileStore is a map from profile name to Profile.
type ProfileStore map[string]*Profile

// Profile is a connection to one Jira server.
type Profile struct {
	// ApiRoot is the REST endpoint, e.g.
	// "https://jira.example.org/rest/api/2".
	ApiRoot string `yaml:"apiRoot"`

	// Token is a bearer token; empty sends unauthenticated requests.
	Token string `yaml:"token,omitempty"`

	// Project is the issue project new tickets are filed under.
	Project string `yaml:"project,omitempty"`
}

// Verify checks the profile is usable.
func (p *Profile) Verify() error {
	u, err := url.Parse(p.ApiRoot)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: apiRoot is not URL: %s", ErrProfileInvalid, p.ApiRoot)
	}
	return nil
}

// LoadProfileStore loads the profile store from a file.
func LoadProfileStore(path string) (ProfileStore, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrProfileStoreNotFound, path)
		}
		return nil, err
	}
	return Unmarshal(buf)
}

// Unmarshal parses a profile store from YAML bytes.
func Unmarshal(buf []byte) (ProfileStore, error) {
	store := map[string]*Profile{}
	if err := yaml.Unmarshal(buf, &store); err != nil {
		return nil, err
	}
	return store, nil
}

// Find returns the named profile, verified. An empty name picks the
// sole profile when exactly one exists, or the one named "default".
func (store ProfileStore) Find(name string) (*Profile, error) {
	if name == "" {
		if len(store) == 1 {
			for _, p := range store {
				return p, p.Verify()
			}
		}
		name = "default"
	}
	p, ok := store[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p, p.Verify()
}

// Save writes the store. The file is created private to the user;
// tokens live in it.
func (store ProfileStore) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	buf, err := yaml.Marshal(store)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0600)
}
