// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/chokosabe/predictchatvm/config"
)

var (
	ErrMissingSubcommand = errors.New("must specify a subcommand")

	configPath string

	rootCmd = &cobra.Command{
		Use:        "predictchat-cli",
		Short:      "Offline tooling for predictchatvm rooms",
		SuggestFor: []string{"predictchat-cli", "predictchatcli"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		"",
		"path to a TOML config file",
	)
	rootCmd.AddCommand(
		deriveCmd,
		oracleCmd,
		actionCmd,
		genesisCmd,
		simulateCmd,
	)
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
