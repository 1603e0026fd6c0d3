/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/utils"
)

const usage = `usage: storefront [flags] <command>

commands:
  migrate      create every storefront table and its foreign keys
  seed         execute the configured seed SQL files
  health       ping the database and print its health as JSON
  fk-validate  check the registered foreign keys
  fk-export    write the registered foreign keys to -out as YAML

flags:
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	var (
		configFile = fs.String("c", "configs/storefront.yaml", "Path to the YAML config file")
		logLevel   = fs.String("log-level", utils.EnvDefaultString("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
		out        = fs.String("out", "foreign_keys.yaml", "Output file for fk-export")
		timeout    = fs.Duration("timeout", time.Minute, "Timeout for the whole command")
	)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one command is required")
	}

	utils.ConfigureLogLevel(*logLevel)
	models.Register()

	command := fs.Arg(0)
	switch command {
	case "fk-validate":
		return validateForeignKeys()
	case "fk-export":
		if err := validateForeignKeys(); err != nil {
			return err
		}
		return database.NewForeignKeyManager(database.GetLogger()).ExportToConfig(*out)
	case "migrate", "seed", "health":
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	cfg, err := database.LoadConfig(*configFile)
	if err != nil {
		return err
	}
	// migrate runs explicitly below.
	cfg.Migrate.EnableMigrateOnStartup = false

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	if _, err := database.InitDB(ctx, cfg); err != nil {
		return err
	}
	defer func() { _ = database.CloseDB() }()

	switch command {
	case "migrate":
		return database.RunMigrations(ctx)
	case "seed":
		return database.Seed(ctx)
	default:
		status := database.GetHealthStatus(ctx)
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			return err
		}
		if !status.Healthy {
			return errors.New("database is unhealthy")
		}
		return nil
	}
}

func validateForeignKeys() error {
	errs := database.NewForeignKeyManager(database.GetLogger()).ValidateConstraints()
	return errors.Join(errs...)
}
