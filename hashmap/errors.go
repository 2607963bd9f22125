package hashmap

import "errors"

var (
	ErrInvalid      = errors.New("hashmap: map is not valid for use")
	ErrDuplicateKey = errors.New("hashmap: key already present and replacement not allowed")
	ErrKeyNotFound  = errors.New("hashmap: key not found")
)
