// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/utils"
	"github.com/spf13/cobra"

	"github.com/chokosabe/predictchatvm/actions"
	"github.com/chokosabe/predictchatvm/genesis"
	"github.com/chokosabe/predictchatvm/oracle"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Encode program actions",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var initializeRoomCmd = &cobra.Command{
	Use:   "init [room id] [oracle feed] [staking mint]",
	Short: "Encode an InitializeRoom action",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		feed, err := genesis.ResolveAddress(args[1])
		if err != nil {
			return err
		}
		return printAction(&actions.InitializeRoom{
			RoomID:      args[0],
			OracleFeed:  feed,
			StakingMint: genesis.ParseMint(args[2]),
		})
	},
}

var stakeCmd = &cobra.Command{
	Use:   "stake [room id] [stake] [target price] [expiry]",
	Short: "Encode a StakeAndCommit action",
	Args:  cobra.ExactArgs(4),
	RunE: func(_ *cobra.Command, args []string) error {
		stake, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid stake: %w", err)
		}
		target, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid target price: %w", err)
		}
		expiry, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid expiry: %w", err)
		}
		return printAction(&actions.StakeAndCommit{
			RoomID:      args[0],
			Stake:       stake,
			TargetPrice: target,
			Expiry:      expiry,
		})
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle [room id] [predictor] [oracle feed]",
	Short: "Encode a SettlePrediction action",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		predictor, err := genesis.ResolveAddress(args[1])
		if err != nil {
			return err
		}
		feed, err := genesis.ResolveAddress(args[2])
		if err != nil {
			return err
		}
		return printAction(&actions.SettlePrediction{
			RoomID:     args[0],
			Predictor:  predictor,
			OracleFeed: feed,
		})
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish [price]",
	Short: "Encode a PublishPrice action carrying price",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		price, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid price: %w", err)
		}
		return printAction(&actions.PublishPrice{Data: oracle.EncodePrice(price)})
	},
}

var fundCmd = &cobra.Command{
	Use:   "fund [room id] [amount]",
	Short: "Encode a FundVault action",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		return printAction(&actions.FundVault{RoomID: args[0], Amount: amount})
	},
}

func init() {
	actionCmd.AddCommand(
		initializeRoomCmd,
		stakeCmd,
		settleCmd,
		publishCmd,
		fundCmd,
	)
}

func printAction(action chain.Action) error {
	b := action.Bytes()
	if _, err := actions.Unmarshalers[action.GetTypeID()](b); err != nil {
		return err
	}
	js, err := json.MarshalIndent(action, "", "  ")
	if err != nil {
		return err
	}
	utils.Outf("{{yellow}}type:{{/}} %d\n", action.GetTypeID())
	utils.Outf("{{yellow}}bytes:{{/}} %s\n", hex.EncodeToString(b))
	utils.Outf("%s\n", js)
	return nil
}
