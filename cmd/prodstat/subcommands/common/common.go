// Package common carries the flags shared by every subcommand that
// talks to Jira.
package common

import (
	"flag"
	"os"

	"github.com/lsst-dm/prodstatus/cmd/prodstat/config/profiles"
	"github.com/lsst-dm/prodstatus/pkg/jira"
)

// ProfileFlags selects which Jira connection profile a command uses.
type ProfileFlags struct {
	Profile      string
	ProfileStore string
}

func (pf *ProfileFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&pf.Profile, "profile", "", "profile name to use")
	fs.StringVar(
		&pf.ProfileStore, "profile-store", "",
		"path to the profile store file (default: ~/.prodstat/profiles)",
	)
}

// Load resolves the selected profile from the store.
func (pf *ProfileFlags) Load() (*profiles.Profile, error) {
	storePath := pf.ProfileStore
	if storePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		storePath = profiles.DefaultStorePath(home)
	}
	store, err := profiles.LoadProfileStore(storePath)
	if err != nil {
		return nil, err
	}
	return store.Find(pf.Profile)
}

// Client builds a Jira client from the selected profile.
func (pf *ProfileFlags) Client() (jira.Client, *profiles.Profile, error) {
	prof, err := pf.Load()
	if err != nil {
		return nil, nil, err
	}
	return jira.NewClient(prof.ApiRoot, prof.Token), prof, nil
}
