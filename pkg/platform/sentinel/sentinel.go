package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// ErrNotFound states a factual absence, not a validation failure. For
// validation errors (bad input, missing fields), use pkg/domain-errors.
var ErrNotFound = errors.New("not found")
