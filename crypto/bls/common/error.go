package common

import "errors"

// ErrZeroKey describes an error due to a zero secret key.
var ErrZeroKey = errors.New("received secret key is zero")

// ErrInfinitePubKey describes an error due to an infinite public key.
var ErrInfinitePubKey = errors.New("received an infinite public key")

// ErrNoSignatures is returned when aggregating an empty set of signatures.
var ErrNoSignatures = errors.New("no signatures to aggregate")
