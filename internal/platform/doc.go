package platform

// Package platform contains OS/platform integration: the application path
// provider used as the base for fallback locations, filesystem helpers, and
// OS open/reveal of instance folders.
