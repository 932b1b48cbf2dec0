package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/launcher/internal/config"
)

// SettingsDialog edits the launcher locations and logging
type SettingsDialog struct {
	settings     *config.Settings
	window       fyne.Window
	localization *Localization
	onSaved      func()
	dialog       *dialog.ConfirmDialog

	downloadDirEntry *widget.Entry
	instanceDirEntry *widget.Entry
	catalogEntry     *widget.Entry
	debugCheck       *widget.Check
}

// ShowSettingsDialog creates and shows the settings dialog. onSaved runs
// after the values are stored.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, window, localization, onSaved)
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window, localization *Localization, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		window:       window,
		localization: localization,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	l := sd.localization
	placeholder := l.GetText(KeyDefaultLocation)

	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder(placeholder)
	sd.instanceDirEntry = widget.NewEntry()
	sd.instanceDirEntry.SetPlaceHolder(placeholder)
	sd.catalogEntry = widget.NewEntry()
	sd.catalogEntry.SetPlaceHolder(placeholder)
	sd.debugCheck = widget.NewCheck(l.GetText(KeyDebugLogging), nil)

	browseDir := func(entry *widget.Entry) *widget.Button {
		return widget.NewButton(l.GetText(KeyBrowse), func() {
			dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
				if err != nil || uri == nil {
					return
				}
				entry.SetText(uri.Path())
			}, sd.window)
		})
	}
	browseCatalog := widget.NewButton(l.GetText(KeyBrowse), func() {
		fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			sd.catalogEntry.SetText(reader.URI().Path())
		}, sd.window)
		fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
		fileDialog.Show()
	})

	form := container.NewVBox(
		widget.NewLabel(l.GetText(KeyDownloadDirectory)+":"),
		container.NewBorder(nil, nil, nil, browseDir(sd.downloadDirEntry), sd.downloadDirEntry),

		widget.NewLabel(l.GetText(KeyInstanceDirectory)+":"),
		container.NewBorder(nil, nil, nil, browseDir(sd.instanceDirEntry), sd.instanceDirEntry),

		widget.NewLabel(l.GetText(KeyCatalogPath)+":"),
		container.NewBorder(nil, nil, nil, browseCatalog, sd.catalogEntry),

		widget.NewSeparator(),
		sd.debugCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.instanceDirEntry.SetText(sd.settings.GetInstanceDirectory())
	sd.catalogEntry.SetText(sd.settings.GetCatalogPath())
	sd.debugCheck.SetChecked(sd.settings.GetDebugLogging())
}

// onSave stores the edited values. Blank locations restore the defaults.
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	sd.settings.SetDownloadDirectory(sd.downloadDirEntry.Text)
	sd.settings.SetInstanceDirectory(sd.instanceDirEntry.Text)
	sd.settings.SetCatalogPath(sd.catalogEntry.Text)
	sd.settings.SetDebugLogging(sd.debugCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
