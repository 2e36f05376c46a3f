// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/ava-labs/hypersdk/utils"
	"github.com/spf13/cobra"

	"github.com/chokosabe/predictchatvm/oracle"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Encode and decode oracle blobs",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var oracleDecodeCmd = &cobra.Command{
	Use:   "decode [hex blob]",
	Short: "Read the price from an oracle blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		blob, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid hex: %w", err)
		}
		price, err := oracle.DecodePrice(blob)
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}price:{{/}} %d\n", price)
		return nil
	},
}

var oracleEncodeCmd = &cobra.Command{
	Use:   "encode [price]",
	Short: "Build the blob a feed publishes for a price",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		price, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid price: %w", err)
		}
		utils.Outf("{{yellow}}blob:{{/}} %s\n", hex.EncodeToString(oracle.EncodePrice(price)))
		return nil
	},
}

func init() {
	oracleCmd.AddCommand(
		oracleDecodeCmd,
		oracleEncodeCmd,
	)
}
