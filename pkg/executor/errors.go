package executor

import "errors"

// ErrExecutorAlreadyRegistered is returned by Registry.Register when a
// different executor already owns the node type being registered.
var ErrExecutorAlreadyRegistered = errors.New("executor already registered for node type")
