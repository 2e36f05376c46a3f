package program

import (
	"errors"

	"github.com/chokosabe/predictchatvm/oracle"
	"github.com/chokosabe/predictchatvm/settlement"
	"github.com/chokosabe/predictchatvm/storage"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidStakeAmount   = errors.New("invalid stake amount")
	ErrExpiryNotInFuture    = errors.New("expiry not in future")
	ErrUnauthorized         = errors.New("unauthorized")

	ErrAlreadyInitialized  = errors.New("room already initialized")
	ErrDuplicatePrediction = errors.New("duplicate prediction")
	ErrRoomNotFound        = errors.New("room not found")
	ErrPredictionNotFound  = errors.New("prediction not found")
	ErrVaultNotFunded      = errors.New("vault not funded")

	ErrAllocationFailed = errors.New("allocation failed")
	ErrStorageFailure   = errors.New("storage failure")

	ErrNotYetExpired       = settlement.ErrNotYetExpired
	ErrAlreadySettled      = settlement.ErrAlreadySettled
	ErrOracleMismatch      = oracle.ErrOracleMismatch
	ErrMalformedOracleData = oracle.ErrMalformedOracleData
	ErrCorruptState        = storage.ErrCorruptState
)

// Kind groups errors by what a caller can do about them.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindConfiguration errors are rejected before any state is read.
	KindConfiguration
	// KindStateConflict errors guard create-once and write-once records.
	KindStateConflict
	// KindTemporal errors may succeed if resubmitted later.
	KindTemporal
	// KindData errors come from oracle input or stored records.
	KindData
	// KindResource errors come from the storage backend.
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindStateConflict:
		return "state-conflict"
	case KindTemporal:
		return "temporal"
	case KindData:
		return "data"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidConfiguration, KindConfiguration},
	{ErrInvalidStakeAmount, KindConfiguration},
	{ErrExpiryNotInFuture, KindConfiguration},
	{ErrUnauthorized, KindConfiguration},
	{ErrAlreadyInitialized, KindStateConflict},
	{ErrDuplicatePrediction, KindStateConflict},
	{ErrAlreadySettled, KindStateConflict},
	{ErrRoomNotFound, KindStateConflict},
	{ErrPredictionNotFound, KindStateConflict},
	{ErrVaultNotFunded, KindStateConflict},
	{ErrNotYetExpired, KindTemporal},
	{ErrMalformedOracleData, KindData},
	{ErrOracleMismatch, KindData},
	{ErrCorruptState, KindData},
	{settlement.ErrRoomMismatch, KindData},
	{ErrAllocationFailed, KindResource},
	{ErrStorageFailure, KindResource},
}

// KindOf classifies err. Errors outside the program's taxonomy are
// KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// Retryable reports whether resubmitting the same operation later can
// succeed without any other state changing.
func Retryable(err error) bool {
	return KindOf(err) == KindTemporal
}
