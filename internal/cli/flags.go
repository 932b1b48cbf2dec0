package cli

// Common flag names and descriptions
const (
	FlagCatalog   = "catalog"
	FlagDownloads = "downloads"
	FlagInstances = "instances"
	FlagDebug     = "debug"
	FlagJSON      = "json"

	DescCatalog   = "Path to the builds catalog (default: <app>/../builds.json, then ./builds.json)"
	DescDownloads = "Directory archives are downloaded to (default: <app>/downloads)"
	DescInstances = "Directory builds are extracted into (default: <app>/instances)"
	DescDebug     = "Enable debug logging"
	DescJSON      = "Print the catalog entry as JSON"
)
