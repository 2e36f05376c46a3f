// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/ava-labs/hypersdk/utils"
	"github.com/spf13/cobra"

	"github.com/chokosabe/predictchatvm/genesis"
	"github.com/chokosabe/predictchatvm/pda"
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive program addresses",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var deriveRoomCmd = &cobra.Command{
	Use:   "room [room id]",
	Short: "Derive the room and vault addresses for a room id",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		room, err := pda.Room(args[0])
		if err != nil {
			return err
		}
		vault, err := pda.Vault(args[0])
		if err != nil {
			return err
		}
		printDerived("room", room)
		printDerived("vault", vault)
		return nil
	},
}

var derivePredictionCmd = &cobra.Command{
	Use:   "prediction [room id] [predictor]",
	Short: "Derive a predictor's prediction address in a room",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		room, err := pda.Room(args[0])
		if err != nil {
			return err
		}
		predictor, err := genesis.ResolveAddress(args[1])
		if err != nil {
			return err
		}
		pred, err := pda.Prediction(room.Codec(), predictor)
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}predictor:{{/}} %s\n", genesis.FormatAddress(predictor))
		printDerived("prediction", pred)
		return nil
	},
}

func init() {
	deriveCmd.AddCommand(
		deriveRoomCmd,
		derivePredictionCmd,
	)
}

func printDerived(label string, a pda.Address) {
	utils.Outf("{{yellow}}%s:{{/}} %s {{cyan}}key=%s bump=%d{{/}}\n",
		label, genesis.FormatAddress(a.Codec()), a.Key, a.Bump)
}
