// Copyright (C) 2024 Bookvault
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/base64"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/bookvault/custody-lib/crypto"
	"github.com/bookvault/custody-lib/io"
	"github.com/bookvault/custody-lib/key"
)

// Config is the custodyd configuration file.
type Config struct {
	// Address to listen on, e.g. ":8080".
	Listen string `yaml:"listen"`

	Store StoreConfig `yaml:"store"`
	Keys  KeysConfig  `yaml:"keys"`
}

// StoreConfig selects the IO Provider backing the server.
type StoreConfig struct {
	// One of "memory", "bolt" or "badger".
	Driver string `yaml:"driver"`

	// On-disk location for the bolt and badger drivers.
	Path string `yaml:"path"`
}

// KeysConfig holds the base64 encoded master keys of the identity provider.
type KeysConfig struct {
	UEK string `yaml:"uek"`
	TEK string `yaml:"tek"`
}

// LoadConfig reads and parses the configuration file at the given path.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %q", path)
	}

	config := Config{Listen: ":8080"}
	if err := yaml.UnmarshalStrict(raw, &config); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %q", path)
	}
	return config, nil
}

// DecodeKeys decodes the configured master keys.
func (c *Config) DecodeKeys() (key.Keys, error) {
	uek, err := base64.StdEncoding.DecodeString(c.Keys.UEK)
	if err != nil {
		return key.Keys{}, errors.Wrap(err, "decoding uek")
	}
	tek, err := base64.StdEncoding.DecodeString(c.Keys.TEK)
	if err != nil {
		return key.Keys{}, errors.Wrap(err, "decoding tek")
	}
	if len(uek) != crypto.KeyLength || len(tek) != crypto.KeyLength {
		return key.Keys{}, errors.Errorf("master keys must be %d bytes", crypto.KeyLength)
	}
	return key.Keys{UEK: uek, TEK: tek}, nil
}

// NewIOProvider opens the configured store. The returned closer is a no-op
// for the memory driver.
func (c *Config) NewIOProvider() (io.Provider, func() error, error) {
	switch c.Store.Driver {
	case "", "memory":
		return io.NewMem(), func() error { return nil }, nil
	case "bolt":
		bolt, err := io.NewBolt(c.Store.Path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening bolt store")
		}
		return bolt, bolt.Close, nil
	case "badger":
		badger, err := io.NewBadger(c.Store.Path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening badger store")
		}
		return badger, badger.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown store driver %q", c.Store.Driver)
	}
}
