package kv

import "fmt"

var ErrNotFound = fmt.Errorf("Not Found")

// Store is a small persistent key/value map used to memoize resolved
// key-to-account mappings.
type Store interface {
	Get(key string) (string, error)
	Set(key string, val string) error
}
