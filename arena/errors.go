package arena

import "errors"

var (
	ErrRangeInvalid       = errors.New("arena: managed range limit is below its start")
	ErrAllocationTooLarge = errors.New("arena: allocation larger than a single arena")
	ErrOutOfMemory        = errors.New("arena: no arena has sufficient free space")
	ErrPtrOutOfRange      = errors.New("arena: pointer outside the managed range")
	ErrOverFree           = errors.New("arena: deref of an arena with no outstanding references")
	ErrReferenceSaturated = errors.New("arena: arena reference count is saturated")
	ErrInvalidArenaIndex  = errors.New("arena: arena index outside the managed range")
	ErrInvalidByteCount   = errors.New("arena: allocation byte count must be positive")
)
