package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/errors"
)

// userFileHeader is decoded before the rest of the user config, so that a
// config written by another version of gp is reported as such rather than as
// a list of unknown fields.
type userFileHeader struct {
	Version string `json:"version"`
}

type unsupportedVersionError struct {
	path, version string
}

func (err unsupportedVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err unsupportedVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The gp config at %s has version %q, "+
		"but this version of gp reads %q.\n"+
		"Run `gp config` to write a new config.", err.path, err.version, SupportedUserConfigVersion)
}

func invalidUserFile(path string, err error) error {
	return errors.NewFriendlyError("Failed to parse the gp config at %s:\n%s\n\n"+
		"Check the field names and types, or run `gp config` to regenerate it.",
		path, err)
}

// readUserFile loads the user config stored at `path`. The returned bool is
// false if there is no config file.
func readUserFile(path string) (User, bool, error) {
	data, err := afero.ReadFile(fs, path)
	switch {
	case os.IsNotExist(err):
		return User{}, false, nil
	case err != nil:
		return User{}, false, errors.WithContext(err, "read")
	}

	header := userFileHeader{Version: InitialUserConfigVersion}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return User{}, false, invalidUserFile(path, err)
	}
	if header.Version != SupportedUserConfigVersion {
		return User{}, false, unsupportedVersionError{path, header.Version}
	}

	var cfg User
	if err := yaml.UnmarshalStrict(data, &cfg, yaml.DisallowUnknownFields); err != nil {
		return User{}, false, invalidUserFile(path, err)
	}
	cfg.Version = header.Version
	return cfg, true, nil
}

func writeUserFile(path string, cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}
