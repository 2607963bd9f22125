package vector

import "errors"

var (
	ErrInvalid        = errors.New("vector: vector is not valid for use")
	ErrElementTooWide = errors.New("vector: element type too wide for a chunk")
	ErrIndexRange     = errors.New("vector: index out of range")
	ErrEmpty          = errors.New("vector: vector is empty")
	ErrChunkNotFound  = errors.New("vector: chunk chain ended before the target chunk")
)
