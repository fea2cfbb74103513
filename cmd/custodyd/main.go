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

// Custodyd serves the custody library over HTTP.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	custodylib "github.com/bookvault/custody-lib"
	"github.com/bookvault/custody-lib/id"
	"github.com/bookvault/custody-lib/key"
)

func main() {
	var configPath string

	app := &cli.App{
		Name:  "custodyd",
		Usage: "Content key custody server for an ebook marketplace",
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Start the server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "conf",
						Aliases:     []string{"c"},
						Value:       "custodyd.yaml",
						EnvVars:     []string{"CUSTODYD_CONF"},
						Destination: &configPath,
					},
				},
				Action: func(c *cli.Context) error {
					return serve(configPath)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("custodyd failed")
	}
}

func serve(configPath string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	keys, err := config.DecodeKeys()
	if err != nil {
		return err
	}

	ioProvider, closeStore, err := config.NewIOProvider()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error().Err(err).Msg("closing store")
		}
	}()

	keyProvider := key.NewStatic(keys)
	idProvider, err := id.NewStandalone(&keyProvider, ioProvider)
	if err != nil {
		return err
	}

	custody := custodylib.New(ioProvider, &idProvider)
	server := NewServer(custody, &idProvider, logger)

	logger.Info().Str("listen", config.Listen).Str("store", config.Store.Driver).Msg("custodyd listening")
	return server.Router().Run(config.Listen)
}
