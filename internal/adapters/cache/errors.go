package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrMalformed = errors.New("response body is not valid JSON")
	ErrNoFetcher = errors.New("cache has no fetcher")
)
