package ports

import "errors"

// ErrStorageUnavailable wraps failures to reach the backing store, as opposed
// to query errors.
var ErrStorageUnavailable = errors.New("storage unavailable")
