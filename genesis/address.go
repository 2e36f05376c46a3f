package genesis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/chokosabe/predictchatvm/consts"
)

var ErrInvalidAddress = errors.New("invalid address")

// FormatAddress renders addr as bech32 under consts.HRP.
func FormatAddress(addr codec.Address) string {
	data, err := bech32.ConvertBits(addr[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	s, err := bech32.Encode(consts.HRP, data)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseAddress decodes a bech32 address carrying consts.HRP.
func ParseAddress(s string) (codec.Address, error) {
	hrp, data5bit, err := bech32.Decode(s)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: failed to decode %q: %w", ErrInvalidAddress, s, err)
	}
	if hrp != consts.HRP {
		return codec.EmptyAddress, fmt.Errorf("%w: %q has hrp %q, expected %q", ErrInvalidAddress, s, hrp, consts.HRP)
	}
	data8bit, err := bech32.ConvertBits(data5bit, 5, 8, false)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: failed to convert bits of %q: %w", ErrInvalidAddress, s, err)
	}
	if len(data8bit) != codec.AddressLen {
		return codec.EmptyAddress, fmt.Errorf("%w: %q decodes to %d bytes, expected %d", ErrInvalidAddress, s, len(data8bit), codec.AddressLen)
	}
	var addr codec.Address
	copy(addr[:], data8bit)
	return addr, nil
}

// NamedAddress derives a stable address from a label, for fixtures and
// scripted runs.
func NamedAddress(name string) codec.Address {
	return codec.CreateAddress(0, ids.ID(hashing.ComputeHash256Array([]byte(name))))
}

// ResolveAddress accepts either a bech32 address or a label for
// NamedAddress. Anything starting with the bech32 prefix must parse.
func ResolveAddress(s string) (codec.Address, error) {
	if s == "" {
		return codec.EmptyAddress, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	if strings.HasPrefix(s, consts.HRP+"1") {
		return ParseAddress(s)
	}
	return NamedAddress(s), nil
}

// NamedMint derives a stable staking mint id from a label.
func NamedMint(name string) ids.ID {
	return ids.ID(hashing.ComputeHash256Array([]byte("mint:" + name)))
}
