// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

// LocalConfigurationError is returned when a local configuration issue
// should prevent the engine from starting: a missing on-chain setting, an
// unparseable member list, and the like. The caller is expected to log it
// and exit with status 1 before the driver loop starts.
type LocalConfigurationError struct {
	msg string
	err error
}

func NewLocalConfigurationError(msg string, err error) *LocalConfigurationError {
	return &LocalConfigurationError{msg: msg, err: err}
}

func (e *LocalConfigurationError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *LocalConfigurationError) Unwrap() error {
	return e.err
}

// ErrEpochNotInitialized is returned by Epoch.IncrementWitness when the
// witness list is empty, i.e. the epoch was never seeded via
// SetCandidatesAndWitnesses. The caller should abandon the slot advance
// and rely on catch-up to resynchronize.
var ErrEpochNotInitialized = errors.New("epoch not initialized: empty witness list")
