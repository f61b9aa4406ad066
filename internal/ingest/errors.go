package ingest

import "errors"

// ErrMoveFailed indicates the source file could not be moved into managed
// storage; no entry is created when this happens.
var ErrMoveFailed = errors.New("failed to move file into media storage")
