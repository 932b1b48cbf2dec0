package extract

// Package extract implements the extraction stage of a build acquisition:
// unpacking a downloaded zip, tar, or gzip-compressed tar archive into an
// instance directory. Entry paths are resolved with filepath-securejoin so no
// entry can be written outside the target directory.
