package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	launcher "github.com/ytget/launcher/internal/app"
	"github.com/ytget/launcher/internal/config"
	"github.com/ytget/launcher/internal/logging"
	"github.com/ytget/launcher/internal/platform"
	"github.com/ytget/launcher/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.launcher"
	AppName = "Launcher"

	WindowWidth  = 900
	WindowHeight = 600
)

func main() {
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())
	if icon, err := ui.LoadLogoResource(); err == nil {
		myApp.SetIcon(icon)
	}

	settings := config.NewSettings(myApp)
	logger := logging.New(os.Stderr, settings.GetDebugLogging() || logging.DebugFromEnv())
	logger.WithField("version", version).Infof("%s starting", AppName)

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	ctx := launcher.New(settings, platform.ExecutablePaths{}, logger)

	root := ui.NewRootUI(myWindow, settings, ctx.Paths, ctx.Catalog, ctx.Acquirer, logger)
	root.SetSettingsCallback(func() {
		logging.SetDebug(logger, settings.GetDebugLogging() || logging.DebugFromEnv())
	})

	myWindow.ShowAndRun()
}
