package service

import "errors"

// ErrInvalidQuery reports request parameters the service cannot act on.
var ErrInvalidQuery = errors.New("invalid query")
