// Package catalog holds the launcher's authoritative list of builds, loaded
// from a JSON document. The list is replaced wholesale on every reload, so a
// snapshot handed out earlier never observes a half-updated catalog.
package catalog
