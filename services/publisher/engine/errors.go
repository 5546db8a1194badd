package engine

import "errors"

var (
	errNilSource          = errors.New("nil source")
	errNilStreamingTarget = errors.New("nil streaming target")
	errNilBatchTarget     = errors.New("nil batch target")
)
