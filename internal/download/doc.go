package download

// Package download implements the fetch stage of a build acquisition: a
// one-shot HTTP transfer of an archive to a local path that reports byte
// progress and exactly one terminal outcome over its update channel.
