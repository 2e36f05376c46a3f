// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chokosabe/predictchatvm/genesis"
)

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Inspect genesis files",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genesisDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the default genesis",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := json.MarshalIndent(genesis.GetDefault(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	},
}

func init() {
	genesisCmd.AddCommand(genesisDefaultCmd)
}
