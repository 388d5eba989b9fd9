package montecarlo

import "errors"

var (
	ErrDegenerateInput = errors.New("threads and samples must both be > 0")
	ErrInvalidPolicy   = errors.New("unknown remainder policy")
	ErrNoSamples       = errors.New("no samples executed")
)
