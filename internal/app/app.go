package app

import (
	"github.com/sirupsen/logrus"

	"github.com/ytget/launcher/internal/acquire"
	"github.com/ytget/launcher/internal/catalog"
	"github.com/ytget/launcher/internal/config"
	"github.com/ytget/launcher/internal/platform"
)

// Context owns the catalog and the orchestrator shared by every front end.
// There is exactly one of each per Context; consumers receive them from here
// instead of looking them up globally.
type Context struct {
	Paths    platform.PathProvider
	Settings config.Provider
	Logger   *logrus.Logger
	Catalog  *catalog.Store
	Acquirer *acquire.Orchestrator
}

// New wires a catalog store and an orchestrator resolving against it
func New(settings config.Provider, paths platform.PathProvider, logger *logrus.Logger, opts ...acquire.Option) *Context {
	store := catalog.NewStore(paths, logger)
	opts = append([]acquire.Option{acquire.WithLogger(logger)}, opts...)

	return &Context{
		Paths:    paths,
		Settings: settings,
		Logger:   logger,
		Catalog:  store,
		Acquirer: acquire.New(store, settings, paths, opts...),
	}
}
