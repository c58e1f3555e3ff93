package storage

import "errors"

var (
	// ErrCapacityExceeded indicates a request beyond a fixed capacity.
	// Containers treat it as fatal; see FailFast.
	ErrCapacityExceeded = errors.New("storage: capacity exceeded")

	// ErrAllocationFailed indicates the allocator could not satisfy a grow or
	// shrink request. The storage content is unchanged.
	ErrAllocationFailed = errors.New("storage: allocation failed")

	// ErrInvalidConstruction indicates a container cannot be built over the
	// given storage, e.g. a single-value box over a zero-capacity storage.
	ErrInvalidConstruction = errors.New("storage: invalid construction")

	// ErrBadHandle indicates a nil, unknown or already freed node handle.
	ErrBadHandle = errors.New("storage: bad node handle")
)

// FailFast panics when err is ErrCapacityExceeded and returns any other error
// unchanged. Exceeding an inline capacity means the program chose the wrong
// storage for its data; continuing would only hide truncated data.
func FailFast(err error) error {
	if errors.Is(err, ErrCapacityExceeded) {
		panic(err)
	}
	return err
}
