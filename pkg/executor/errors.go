package executor

import "errors"

// Sentinel errors for executor operations.
var (
	ErrNoExecutorForKind = errors.New("no executor registered for node kind")
	ErrAlreadyRegistered = errors.New("executor already registered for node kind")
)
