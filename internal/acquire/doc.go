package acquire

// Package acquire turns a catalog build id into an extracted instance
// directory. Each request runs a fetch task and then an extraction task on its
// own goroutine and reports progress, success or failure to one callback,
// keyed by build id.
