// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chokosabe/predictchatvm/genesis"
	"github.com/chokosabe/predictchatvm/scenario"
)

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	errColor  = color.New(color.FgRed).SprintFunc()
	dimColor  = color.New(color.Faint).SprintFunc()
	bodyColor = color.New(color.FgCyan).SprintFunc()
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [script.json]",
	Short: "Replay a room script against an in-memory state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := cfg.NewLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		script, err := scenario.LoadFile(args[0])
		if err != nil {
			return err
		}
		if script.Genesis == nil && cfg.Genesis != "" {
			script.Genesis, err = genesis.LoadFile(cfg.Genesis)
			if err != nil {
				return err
			}
		}

		runner, err := scenario.NewRunner(cfg.Program, log, chaintest.NewInMemoryStore())
		if err != nil {
			return err
		}
		steps, runErr := runner.Run(cmd.Context(), script)
		for _, step := range steps {
			printStep(cmd.OutOrStdout(), step)
		}
		if runErr != nil {
			return runErr
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d ops matched\n", okColor("done"), len(steps))
		return nil
	},
}

func printStep(w io.Writer, step scenario.Step) {
	outcome := okColor("ok")
	if step.Err != nil {
		outcome = errColor(step.Err.Error())
	}
	fmt.Fprintf(w, "%s %-8s %s\n",
		dimColor(fmt.Sprintf("#%03d t=%d", step.Index, step.Now)),
		step.Op.Op,
		outcome,
	)
	if p := step.Prediction; p != nil {
		fmt.Fprintf(w, "    %s stake=%d target=%d expiry=%d status=%s\n",
			bodyColor("prediction"), p.Stake, p.TargetPrice, p.Expiry, p.Status)
	}
}
