// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/version"
	"github.com/gagliardetto/solana-go"
)

const (
	Name   = "predictchatvm"
	Symbol = "PCHAT"

	// HRP is the human readable part used for bech32 addresses.
	HRP = "pchat"

	// Action Type IDs
	InitializeRoomID   uint8 = 0
	StakeAndCommitID   uint8 = 1
	SettlePredictionID uint8 = 2
	PublishPriceID     uint8 = 3
	FundVaultID        uint8 = 4
)

const (
	// PDAAddressTypeID tags addresses derived from program seeds. It is kept
	// clear of the auth type IDs (ED25519, SECP256R1, BLS) so a derived
	// address can never collide with a signer.
	PDAAddressTypeID uint8 = 0x7f

	// MaxRoomIDLen is the longest room identifier usable as a derivation seed.
	MaxRoomIDLen = 32

	// MaxOracleDataSize bounds the blob an oracle feed account may hold.
	MaxOracleDataSize = 256

	// MaxActionSize is the byte limit for a marshaled action.
	MaxActionSize = 1024

	Uint16Len = 2

	// ProgramConfigKey is the custom rules key carrying a program.Config.
	ProgramConfigKey = "predictchat/program"
)

var (
	ID ids.ID

	// ProgramID is the identity the room, vault and prediction addresses
	// are derived under.
	ProgramID solana.PublicKey
)

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
	ProgramID = solana.PublicKeyFromBytes(ID[:])
}

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}
