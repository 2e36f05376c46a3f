// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "predictchat-cli" derives room addresses, encodes actions and replays
// room scenarios offline.
package main

import (
	"os"

	"github.com/ava-labs/hypersdk/utils"

	"github.com/chokosabe/predictchatvm/cmd/predictchat-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		utils.Outf("{{red}}predictchat-cli exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
