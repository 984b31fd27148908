// Package common provides shared utilities for Folio
package common

import "errors"

// ErrMissingAPIKey marks a client call that cannot proceed because its
// credential is not configured. Callers fail fast on it: no retries, and
// batch operations surface an empty result instead of aborting.
var ErrMissingAPIKey = errors.New("API key not configured")
