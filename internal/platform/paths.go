package platform

import (
	"os"
	"path/filepath"
)

// Fallback locations, relative to the application directory
const (
	DownloadsDirName = "downloads"
	InstancesDirName = "instances"
	CatalogFileName  = "builds.json"
)

// PathProvider exposes the running application's own directory
type PathProvider interface {
	AppDir() string
}

// ExecutablePaths resolves the application directory from the running binary
type ExecutablePaths struct{}

// AppDir returns the directory holding the executable, or the working
// directory when the executable path cannot be determined
func (ExecutablePaths) AppDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// FixedPaths is a PathProvider rooted at a known directory
type FixedPaths string

// AppDir returns the fixed directory
func (p FixedPaths) AppDir() string {
	return string(p)
}

// DefaultDownloadsDir returns <appDir>/downloads
func DefaultDownloadsDir(paths PathProvider) string {
	return filepath.Join(paths.AppDir(), DownloadsDirName)
}

// DefaultInstancesDir returns <appDir>/instances
func DefaultInstancesDir(paths PathProvider) string {
	return filepath.Join(paths.AppDir(), InstancesDirName)
}

// CatalogCandidates returns the catalog locations tried in order: the
// explicit path when set, next to the application's parent directory, then
// the working directory.
func CatalogCandidates(explicit string, paths PathProvider) []string {
	candidates := make([]string, 0, 3)
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates,
		filepath.Join(paths.AppDir(), "..", CatalogFileName),
		CatalogFileName,
	)
	return candidates
}
