package strategy

import "errors"

// ErrUnknownStrategy indicates a strategy name that Parse does not recognize.
var ErrUnknownStrategy = errors.New("unknown draw strategy")
