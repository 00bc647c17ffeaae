// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

// Package config loads easydb.io database credentials from a TOML file,
// environment variables, and flags.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	// EnvPrefix is the prefix of all environment variables recognized by
	// this package, e.g. EASYDB_TOKEN.
	EnvPrefix = "EASYDB"

	// DefaultURL is the endpoint used when the config omits one.
	DefaultURL = "https://app.easydb.io/database/"

	// DefaultFileName is the base name of the config file, easydb.toml.
	DefaultFileName = "easydb"
)

// Config carries the identity of a single hosted database: which database
// (UUID), how to authenticate (Token) and where the service lives (URL).
type Config struct {
	UUID  string `mapstructure:"UUID"`
	Token string `mapstructure:"Token"`
	URL   string `mapstructure:"URL"`
}

// Load reads the config from path, or from ./easydb.toml when path is empty.
// EASYDB_UUID, EASYDB_TOKEN and EASYDB_URL override file values.
func Load(path string) (*Config, error) {
	v, err := Open(path)
	if err != nil {
		return nil, err
	}
	return finish(v)
}

// Open builds the viper instance Load reads from: the config file at path
// (or ./easydb.toml when path is empty) with the EASYDB_* environment
// bound on top. A missing default file is tolerated; an explicit path
// that cannot be read is an error. Callers that carry flags can fold
// them in with BindFlags.
func Open(path string) (*viper.Viper, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range []string{"UUID", "Token", "URL"} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key)); err != nil {
			return nil, err
		}
	}
	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine as long as the environment carries the
		// required values
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.WithMessage(err, "read config")
		}
	}
	return v, nil
}

// Parse builds a Config from a string in the TOML format.
func Parse(s string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(s)); err != nil {
		return nil, errors.WithMessage(err, "parse config")
	}
	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.WithMessage(err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate defaults the URL and verifies that URL and UUID combine into a
// usable endpoint.
func (c *Config) Validate() error {
	if c.UUID == "" {
		return errors.New("UUID is required")
	}
	if c.Token == "" {
		return errors.New("Token is required")
	}
	if c.URL == "" {
		c.URL = DefaultURL
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.WithMessagef(err, "invalid URL %q", c.URL)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.Errorf("invalid URL %q: missing scheme or host", c.URL)
	}
	if _, err = u.Parse(url.PathEscape(c.UUID)); err != nil {
		return errors.WithMessagef(err, "UUID %q does not form a valid URL", c.UUID)
	}
	return nil
}

// BindFlags binds each flag to its associated viper configuration
// (config file and environment variable).
func BindFlags(fs *pflag.FlagSet, v *viper.Viper, envPrefix string) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		// environment variables can't have dashes in them, so bind them
		// to their equivalent keys with underscores
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			err = multierr.Append(err, v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)))
		}

		// apply the viper config value to the flag when the flag is not
		// set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			err = multierr.Append(err, fs.Set(f.Name, fmt.Sprintf("%v", val)))
		}
	})
	return err
}
