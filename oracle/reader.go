// Package oracle reads prices out of oracle feed accounts.
//
// The decoder is deliberately minimal: the raw price is the first 8 bytes of
// the feed blob, little-endian and signed. Exponent, confidence interval and
// staleness flags are not interpreted.
package oracle

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/hypersdk/codec"
)

// PriceLen is the number of leading bytes holding the price.
const PriceLen = 8

var (
	ErrMalformedOracleData = errors.New("malformed oracle data")
	ErrOracleMismatch      = errors.New("oracle feed mismatch")
)

// Account is an oracle feed's data blob together with the address it was
// read from.
type Account struct {
	Address codec.Address
	Data    []byte
}

// DecodePrice interprets the first PriceLen bytes of blob as a little-endian
// int64.
func DecodePrice(blob []byte) (int64, error) {
	if len(blob) < PriceLen {
		return 0, fmt.Errorf("%w: need %d bytes, got %d", ErrMalformedOracleData, PriceLen, len(blob))
	}
	return int64(binary.LittleEndian.Uint64(blob[:PriceLen])), nil
}

// EncodePrice returns the blob DecodePrice reads price from.
func EncodePrice(price int64) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(price))
}

// VerifySource checks the account was read from the expected feed.
func (a Account) VerifySource(expected codec.Address) error {
	if a.Address != expected {
		return fmt.Errorf("%w: data from %s, room expects %s", ErrOracleMismatch, a.Address, expected)
	}
	return nil
}

// Price decodes the account's price.
func (a Account) Price() (int64, error) {
	return DecodePrice(a.Data)
}
