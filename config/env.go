package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/hddsim/disk/hdd"
)

// Environment variables that override a configuration.
const (
	EnvVerbose     = "HDDSIM_VERBOSE"
	EnvCachePolicy = "HDDSIM_CACHE_POLICY"
	EnvCacheBlocks = "HDDSIM_CACHE_BLOCKS"
)

// LookupFunc returns the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadEnvFile adds the variables of a .env file to the process environment.
// Variables that are already set are kept. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// ReadEnvFile returns a lookup function over the variables of a .env file.
func ReadEnvFile(path string) (LookupFunc, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}

	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}, nil
}

// Override applies the environment overrides to the configuration. A nil
// lookup reads the process environment.
func (d *Device) Override(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvVerbose); ok {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvVerbose, v)
		}

		d.Verbose = verbose
	}

	if v, ok := lookup(EnvCachePolicy); ok {
		policy, err := hdd.ParseCacheHitPolicy(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvCachePolicy, v)
		}

		d.CachePolicy = policy.String()
	}

	if v, ok := lookup(EnvCacheBlocks); ok {
		blocks, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvCacheBlocks, v)
		}

		d.CacheBlocks = blocks
	}

	return nil
}
