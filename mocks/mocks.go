// Package mocks holds testify mocks for the repository, storage and service
// interfaces.
package mocks

import "github.com/stretchr/testify/mock"

// result returns argument i as T, or the zero T when the expectation returned nil.
func result[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}
