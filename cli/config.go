package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/internal/file"
)

type config struct {
	APIAddress string `json:"apiAddress"`
	APIToken   string `json:"apiToken"`
}

func getConfig() (*config, error) {
	postwrightHome, err := getPostwrightHome()
	if err != nil {
		return nil, errors.Wrapf(err, "error finding postwright home")
	}
	postwrightConfigFile := path.Join(postwrightHome, "config")
	if !file.Exists(postwrightConfigFile) {
		return nil, errors.Errorf(
			"no postwright configuration was found at %s; please use "+
				"`pw login` to continue\n",
			postwrightConfigFile,
		)
	}

	configBytes, err := ioutil.ReadFile(postwrightConfigFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading postwright config file at %s",
			postwrightConfigFile,
		)
	}

	config := &config{}
	if err := json.Unmarshal(configBytes, config); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing postwright config file at %s",
			postwrightConfigFile,
		)
	}

	return config, nil
}

func saveConfig(config *config) error {
	postwrightHome, err := getPostwrightHome()
	if err != nil {
		return errors.Wrapf(err, "error finding postwright home")
	}
	if _, err = os.Stat(postwrightHome); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of postwright home at %s",
				postwrightHome,
			)
		}
		// The directory doesn't exist-- create it
		if err = os.MkdirAll(postwrightHome, 0755); err != nil {
			return errors.Wrapf(
				err,
				"error creating postwright home at %s",
				postwrightHome,
			)
		}
	}
	postwrightConfigFile := path.Join(postwrightHome, "config")

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err :=
		ioutil.WriteFile(postwrightConfigFile, configBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing to %s", postwrightConfigFile)
	}
	return nil
}

func deleteConfig() error {
	postwrightHome, err := getPostwrightHome()
	if err != nil {
		return errors.Wrapf(err, "error finding postwright home")
	}
	postwrightConfigFile := path.Join(postwrightHome, "config")

	if err := os.Remove(postwrightConfigFile); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	return nil
}

func getPostwrightHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}

	return path.Join(homeDir, ".postwright"), nil
}

// configTokenStore adapts the CLI's config file to the
// session.TokenAccessor interface so a session.Manager can persist and
// discard tokens through it.
type configTokenStore struct {
	apiAddress string
}

func (c *configTokenStore) HasToken() bool {
	config, err := getConfig()
	return err == nil && config.APIToken != ""
}

func (c *configTokenStore) Get() string {
	config, err := getConfig()
	if err != nil {
		return ""
	}
	return config.APIToken
}

func (c *configTokenStore) Put(token string) error {
	return saveConfig(
		&config{
			APIAddress: c.apiAddress,
			APIToken:   token,
		},
	)
}

func (c *configTokenStore) Clear() error {
	if err := deleteConfig(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return err
	}
	return nil
}
