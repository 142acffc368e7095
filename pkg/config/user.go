package config

import (
	"os"
	"strconv"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/sidkik/groovepush/pkg/errors"
)

const (
	// UserConfigPath is the default path to the gp user config.
	UserConfigPath = "~/.groovepush.yaml"

	// InitialUserConfigVersion is the first version of the gp user config.
	// Config files that do not specify a version will default to this
	// version.
	InitialUserConfigVersion = "v1alpha1"

	// SupportedUserConfigVersion is the supported version of the gp user
	// config of the current binary.
	SupportedUserConfigVersion = "v1alpha1"

	// DefaultStorePath is where the filesystem blob store lives when the
	// user hasn't configured a remote backend.
	DefaultStorePath = "~/.groovepush/store"

	// DefaultBucket is the bucket used by the object storage backends when
	// none is configured.
	DefaultBucket = "groovepush-bucket"

	// DefaultRegion is the S3 region used when neither the config nor the
	// environment sets one.
	DefaultRegion = "us-east-1"

	// DefaultConcurrency is the number of blob transfers that may be in
	// flight at once.
	DefaultConcurrency = 8
)

// StoreType is the kind of blob store backend.
type StoreType string

const (
	StoreTypeFS  StoreType = "fs"
	StoreTypeS3  StoreType = "s3"
	StoreTypeGCS StoreType = "gcs"
)

// Store configures where snapshots and file contents are stored.
type Store struct {
	Type StoreType `json:"type,omitempty"`

	// Path is the root directory of the filesystem backend.
	Path string `json:"path,omitempty"`

	// Bucket, Region, and Endpoint configure the object storage backends.
	// Endpoint is only needed for S3-compatible services such as MinIO.
	Bucket   string `json:"bucket,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`
}

// User contains the configuration for the current user.
type User struct {
	Version     string `json:"version,omitempty"`
	Store       Store  `json:"store,omitempty"`
	Concurrency int    `json:"concurrency,omitempty"`
}

// Environment variables that override the user config.
const (
	storeTypeEnv     = "GP_STORE_TYPE"
	storePathEnv     = "GP_STORE_PATH"
	storeBucketEnv   = "GP_STORE_BUCKET"
	storeRegionEnv   = "GP_STORE_REGION"
	storeEndpointEnv = "GP_STORE_ENDPOINT"
	storePrefixEnv   = "GP_STORE_PREFIX"
	concurrencyEnv   = "GP_CONCURRENCY"
)

// Mocked out for unit testing.
var (
	homedirExpand = homedir.Expand
	getenv        = os.Getenv
)

// ParseUser parses the user config at the default path. A missing config file
// isn't an error: the defaults are used instead. Environment variables take
// precedence over the file.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config, found, err := readUserFile(path)
	if err != nil {
		return User{}, errors.WithContext(err, "parse")
	}
	if !found {
		config = User{Version: SupportedUserConfigVersion}
	}

	if err := config.applyEnv(); err != nil {
		return User{}, errors.WithContext(err, "read environment")
	}

	if err := config.applyDefaults(); err != nil {
		return User{}, err
	}
	return config, nil
}

func (u *User) applyEnv() error {
	overrides := []struct {
		env   string
		field *string
	}{
		{storePathEnv, &u.Store.Path},
		{storeBucketEnv, &u.Store.Bucket},
		{storeRegionEnv, &u.Store.Region},
		{storeEndpointEnv, &u.Store.Endpoint},
		{storePrefixEnv, &u.Store.Prefix},
	}
	for _, override := range overrides {
		if val := getenv(override.env); val != "" {
			*override.field = val
		}
	}

	if storeType := getenv(storeTypeEnv); storeType != "" {
		u.Store.Type = StoreType(storeType)
	}

	// Fall back to the standard AWS variable, as the AWS SDK does.
	if u.Store.Region == "" {
		u.Store.Region = getenv("AWS_REGION")
	}

	if concurrency := getenv(concurrencyEnv); concurrency != "" {
		n, err := strconv.Atoi(concurrency)
		if err != nil {
			return errors.NewFriendlyError("%s must be an integer, got %q.",
				concurrencyEnv, concurrency)
		}
		u.Concurrency = n
	}
	return nil
}

func (u *User) applyDefaults() error {
	if u.Store.Type == "" {
		u.Store.Type = StoreTypeFS
	}

	switch u.Store.Type {
	case StoreTypeFS:
		if u.Store.Path == "" {
			u.Store.Path = DefaultStorePath
		}
		path, err := homedirExpand(u.Store.Path)
		if err != nil {
			return errors.WithContext(err, "expand store path")
		}
		u.Store.Path = path
	case StoreTypeS3, StoreTypeGCS:
		if u.Store.Bucket == "" {
			u.Store.Bucket = DefaultBucket
		}
		if u.Store.Type == StoreTypeS3 && u.Store.Region == "" {
			u.Store.Region = DefaultRegion
		}
	default:
		return errors.NewFriendlyError("Unsupported store type %q. "+
			"Expected one of %q, %q, or %q.",
			u.Store.Type, StoreTypeFS, StoreTypeS3, StoreTypeGCS)
	}

	if u.Concurrency <= 0 {
		u.Concurrency = DefaultConcurrency
	}
	return nil
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg User) error {
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}
	return writeUserFile(path, cfg)
}

// GetUserConfigPath returns the path to the user's global gp configuration.
// This path is expanded, so it can be directly passed to file operations.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}
