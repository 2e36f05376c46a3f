package actions

import "errors"

var (
	ErrUnmarshalEmpty     = errors.New("cannot unmarshal empty bytes")
	ErrUnexpectedTypeID   = errors.New("unexpected type id")
	ErrUnexpectedConfig   = errors.New("unexpected program config")
	ErrOracleDataTooLarge = errors.New("oracle data too large")
)
