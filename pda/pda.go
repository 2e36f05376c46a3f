// Package pda derives the program owned addresses rooms, vaults and
// predictions are stored under. Derivation follows the Solana program
// derived address scheme: the highest bump whose hash falls off the ed25519
// curve wins, so the same seeds always give the same (address, bump).
package pda

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/gagliardetto/solana-go"

	"github.com/chokosabe/predictchatvm/consts"
)

var (
	roomSeed       = []byte("room")
	vaultSeed      = []byte("vault")
	predictionSeed = []byte("prediction")
)

var (
	ErrInvalidSeed  = errors.New("invalid seed")
	ErrBumpMismatch = errors.New("derived address mismatch")
)

// Address is a derived address together with the bump that produced it.
type Address struct {
	Key  solana.PublicKey
	Bump uint8
}

// Codec returns the address in the VM's address space.
func (a Address) Codec() codec.Address {
	return codec.CreateAddress(consts.PDAAddressTypeID, ids.ID(a.Key))
}

func (a Address) String() string {
	return fmt.Sprintf("%s (bump %d)", a.Key, a.Bump)
}

// Derive finds the program address for seeds under consts.ProgramID.
func Derive(seeds ...[]byte) (Address, error) {
	key, bump, err := solana.FindProgramAddress(seeds, consts.ProgramID)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	return Address{Key: key, Bump: bump}, nil
}

// Verify recomputes the address for seeds and bump and checks it matches
// expected.
func Verify(expected codec.Address, bump uint8, seeds ...[]byte) error {
	withBump := append(append([][]byte{}, seeds...), []byte{bump})
	key, err := solana.CreateProgramAddress(withBump, consts.ProgramID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBumpMismatch, err)
	}
	got := Address{Key: key, Bump: bump}.Codec()
	if !bytes.Equal(got[:], expected[:]) {
		return fmt.Errorf("%w: got %s, want %s", ErrBumpMismatch, got, expected)
	}
	return nil
}

// RoomSeeds returns the seeds of the room account for roomID.
func RoomSeeds(roomID string) ([][]byte, error) {
	if err := checkRoomID(roomID); err != nil {
		return nil, err
	}
	return [][]byte{roomSeed, []byte(roomID)}, nil
}

// VaultSeeds returns the seeds of the stake vault for roomID.
func VaultSeeds(roomID string) ([][]byte, error) {
	if err := checkRoomID(roomID); err != nil {
		return nil, err
	}
	return [][]byte{vaultSeed, []byte(roomID)}, nil
}

// PredictionSeeds returns the seeds of predictor's prediction in room. The
// predictor address is hashed since it exceeds the 32 byte seed limit.
func PredictionSeeds(room, predictor codec.Address) [][]byte {
	return [][]byte{predictionSeed, room[1:], hashing.ComputeHash256(predictor[:])}
}

// Room derives the room account for roomID.
func Room(roomID string) (Address, error) {
	seeds, err := RoomSeeds(roomID)
	if err != nil {
		return Address{}, err
	}
	return Derive(seeds...)
}

// Vault derives the stake vault for roomID.
func Vault(roomID string) (Address, error) {
	seeds, err := VaultSeeds(roomID)
	if err != nil {
		return Address{}, err
	}
	return Derive(seeds...)
}

// Prediction derives predictor's prediction account in room.
func Prediction(room, predictor codec.Address) (Address, error) {
	return Derive(PredictionSeeds(room, predictor)...)
}

func checkRoomID(roomID string) error {
	if len(roomID) == 0 || len(roomID) > consts.MaxRoomIDLen {
		return fmt.Errorf("%w: room id must be 1-%d bytes, got %d", ErrInvalidSeed, consts.MaxRoomIDLen, len(roomID))
	}
	return nil
}
