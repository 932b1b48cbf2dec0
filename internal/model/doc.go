package model

// Package model defines domain data structures used across the app: catalog
// build entries, acquisition requests and their events, and the state enum
// that drives an acquisition. Structures are plain values so they can be
// copied into UI bindings and log fields without sharing state.
