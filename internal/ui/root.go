package ui

import (
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/launcher/internal/acquire"
	"github.com/ytget/launcher/internal/config"
	"github.com/ytget/launcher/internal/logging"
	"github.com/ytget/launcher/internal/model"
	"github.com/ytget/launcher/internal/platform"
)

// Catalog is the build catalog shown by the UI
type Catalog interface {
	Reload(source string)
	Entries() []model.BuildEntry
	LastError() error
	SetUpdateCallback(func([]model.BuildEntry))
}

// Acquirer starts build acquisitions and reports their events
type Acquirer interface {
	Acquire(id string) error
	SetUpdateCallback(func(model.AcquisitionEvent))
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	paths        platform.PathProvider
	catalog      Catalog
	acquirer     Acquirer
	logger       logrus.FieldLogger
	localization *Localization

	mu       sync.RWMutex
	builds   []model.BuildEntry
	statuses map[string]BuildStatus
	selected string

	onSettingsSaved func()

	buildList        *widget.List
	nameLabel        *widget.Label
	summaryLabel     *widget.Label
	urlLabel         *widget.Label
	descriptionLabel *widget.Label
	stateLabel       *widget.Label
	progressBar      *widget.ProgressBar
	messageLabel     *widget.Label
	downloadBtn      *widget.Button
	revealBtn        *widget.Button
	refreshBtn       *widget.Button
	settingsBtn      *widget.Button
}

// NewRootUI creates the main window content and loads the catalog
func NewRootUI(window fyne.Window, settings *config.Settings, paths platform.PathProvider, catalog Catalog, acquirer Acquirer, logger logrus.FieldLogger) *RootUI {
	if logger == nil {
		logger = logging.Discard()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		paths:        paths,
		catalog:      catalog,
		acquirer:     acquirer,
		logger:       logger.WithField("component", "ui"),
		localization: localization,
		statuses:     make(map[string]BuildStatus),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()

	catalog.SetUpdateCallback(ui.onCatalogUpdate)
	acquirer.SetUpdateCallback(ui.onAcquisitionEvent)

	ui.Refresh()
	return ui
}

// SetSettingsCallback sets the function called after the settings dialog saves
func (ui *RootUI) SetSettingsCallback(callback func()) {
	ui.onSettingsSaved = callback
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.buildList = widget.NewList(
		ui.buildCount,
		func() fyne.CanvasObject { return NewBuildRow(ui.localization) },
		ui.updateBuildRow,
	)
	ui.buildList.OnSelected = ui.onSelect
	ui.buildList.OnUnselected = func(widget.ListItemID) {
		ui.mu.Lock()
		ui.selected = ""
		ui.mu.Unlock()
		ui.updateDetail()
	}

	ui.nameLabel = widget.NewLabel("")
	ui.nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.summaryLabel = widget.NewLabel("")
	ui.summaryLabel.Wrapping = fyne.TextWrapWord
	ui.urlLabel = widget.NewLabel("")
	ui.urlLabel.Truncation = fyne.TextTruncateEllipsis
	ui.descriptionLabel = widget.NewLabel("")
	ui.descriptionLabel.Wrapping = fyne.TextWrapWord
	ui.stateLabel = widget.NewLabel("")
	ui.progressBar = widget.NewProgressBar()

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.revealBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyReveal), ui.onRevealClick)

	ui.refreshBtn = widget.NewButton(IconRefresh+" "+ui.localization.GetText(KeyRefresh), ui.Refresh)
	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance
	ui.messageLabel = widget.NewLabel("")
	ui.messageLabel.Truncation = fyne.TextTruncateEllipsis

	topPanel := container.NewBorder(nil, nil, container.NewHBox(ui.settingsBtn, ui.refreshBtn), nil, ui.messageLabel)

	detail := container.NewBorder(
		container.NewVBox(ui.nameLabel, ui.summaryLabel, ui.urlLabel, widget.NewSeparator()),
		container.NewVBox(
			widget.NewSeparator(),
			ui.stateLabel,
			ui.progressBar,
			container.NewHBox(ui.downloadBtn, ui.revealBtn),
		),
		nil,
		nil,
		container.NewVScroll(ui.descriptionLabel),
	)

	split := container.NewHSplit(ui.buildList, container.NewPadded(detail))
	split.Offset = 0.4

	ui.window.SetContent(container.NewBorder(topPanel, nil, nil, nil, split))
	ui.updateDetail()
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	refreshItem := fyne.NewMenuItem(ui.localization.GetText(KeyRefresh), ui.Refresh)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	available := ui.localization.GetAvailableLanguages()
	for _, code := range ui.localization.LanguageCodes() {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(available[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), refreshItem, settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.revealBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyReveal))
	ui.refreshBtn.SetText(IconRefresh + " " + ui.localization.GetText(KeyRefresh))
	ui.buildList.Refresh()
	ui.updateDetail()
}

// Refresh reloads the catalog from the configured location
func (ui *RootUI) Refresh() {
	ui.catalog.Reload(ui.settings.GetCatalogPath())
}

// onCatalogUpdate replaces the shown builds, keeping the selection when the
// selected build is still in the catalog
func (ui *RootUI) onCatalogUpdate(entries []model.BuildEntry) {
	ui.mu.Lock()
	ui.builds = entries
	selectedIndex := indexOf(entries, ui.selected)
	if selectedIndex < 0 {
		ui.selected = ""
	}
	ui.mu.Unlock()

	var message string
	switch {
	case ui.catalog.LastError() != nil:
		message = IconError + " " + ui.localization.GetText(KeyCatalogFailed)
	case len(entries) == 0:
		message = ui.localization.GetText(KeyNoBuilds)
	default:
		message = fmt.Sprintf("%s: %d", ui.localization.GetText(KeyBuildsLoaded), len(entries))
	}
	ui.logger.WithField("builds", len(entries)).Debug("catalog updated")

	fyne.Do(func() {
		ui.buildList.Refresh()
		if selectedIndex >= 0 {
			ui.buildList.Select(selectedIndex)
		} else {
			ui.buildList.UnselectAll()
		}
		ui.messageLabel.SetText(message)
		ui.updateDetail()
	})
}

// onAcquisitionEvent folds event into the build's status and redraws it
func (ui *RootUI) onAcquisitionEvent(event model.AcquisitionEvent) {
	ui.mu.Lock()
	ui.statuses[event.BuildID] = ui.statuses[event.BuildID].Apply(event)
	ui.mu.Unlock()

	if event.IsTerminal() {
		ui.logger.WithField("build", event.BuildID).Info(event.String())
	}

	fyne.Do(func() {
		ui.buildList.Refresh()
		if event.BuildID == ui.selectedID() {
			ui.updateDetail()
		}
		if event.IsTerminal() {
			ui.notifyOutcome(event)
		}
	})
}

// notifyOutcome reports a finished acquisition in the message bar and as a
// system notification
func (ui *RootUI) notifyOutcome(event model.AcquisitionEvent) {
	name := event.BuildID
	if entry, ok := ui.entry(event.BuildID); ok {
		name = entry.DisplayName()
	}

	title := ui.localization.GetText(KeyAcquireCompleted)
	content := name
	if event.Kind == model.EventFailed {
		title = ui.localization.GetText(KeyAcquireFailed)
		content = name + ": " + event.Reason
	}

	ui.messageLabel.SetText(title + MiddleDotSeparator + content)
	if app := fyne.CurrentApp(); app != nil {
		app.SendNotification(fyne.NewNotification(title, content))
	}
}

func (ui *RootUI) buildCount() int {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return len(ui.builds)
}

func (ui *RootUI) updateBuildRow(id widget.ListItemID, item fyne.CanvasObject) {
	ui.mu.RLock()
	if id < 0 || id >= len(ui.builds) {
		ui.mu.RUnlock()
		return
	}
	entry := ui.builds[id]
	status := ui.statuses[entry.ID]
	ui.mu.RUnlock()

	if row, ok := item.(*BuildRow); ok {
		row.Update(entry, status)
	}
}

func (ui *RootUI) onSelect(id widget.ListItemID) {
	ui.mu.Lock()
	if id >= 0 && id < len(ui.builds) {
		ui.selected = ui.builds[id].ID
	}
	ui.mu.Unlock()
	ui.updateDetail()
}

// updateDetail redraws the detail panel for the selected build
func (ui *RootUI) updateDetail() {
	entry, ok := ui.entry(ui.selectedID())
	if !ok {
		ui.nameLabel.SetText(ui.localization.GetText(KeySelectBuild))
		ui.summaryLabel.SetText("")
		ui.urlLabel.SetText("")
		ui.descriptionLabel.SetText("")
		ui.stateLabel.SetText("")
		ui.progressBar.SetValue(0)
		ui.downloadBtn.Disable()
		ui.revealBtn.Disable()
		return
	}

	status := ui.status(entry.ID)

	ui.nameLabel.SetText(entry.DisplayName())
	ui.summaryLabel.SetText(entry.Summary)
	if entry.HasDownloadURL() {
		ui.urlLabel.SetText(entry.DownloadURL)
	} else {
		ui.urlLabel.SetText(DashPlaceholder)
	}
	if entry.Description != "" {
		ui.descriptionLabel.SetText(entry.Description)
	} else {
		ui.descriptionLabel.SetText(ui.localization.GetText(KeyNoDescription))
	}

	ui.stateLabel.Importance = StateImportance(status.State)
	ui.stateLabel.SetText(status.Text(ui.localization))
	ui.progressBar.SetValue(status.Progress())

	if status.State.IsActive() || status.State == model.StateResolving {
		ui.downloadBtn.Disable()
	} else {
		ui.downloadBtn.Enable()
	}
	if platform.IsDirectory(ui.instanceDir(entry.ID)) {
		ui.revealBtn.Enable()
	} else {
		ui.revealBtn.Disable()
	}
}

// onDownloadClick starts acquiring the selected build
func (ui *RootUI) onDownloadClick() {
	id := ui.selectedID()
	if id == "" {
		return
	}

	ui.mu.Lock()
	if current := ui.statuses[id]; !current.State.IsActive() && current.State != model.StateResolving {
		ui.statuses[id] = BuildStatus{State: model.StateResolving}
	}
	ui.mu.Unlock()
	ui.updateDetail()
	ui.buildList.Refresh()

	err := ui.acquirer.Acquire(id)
	if errors.Is(err, acquire.ErrInProgress) {
		ui.messageLabel.SetText(ui.localization.GetText(KeyAlreadyRunning))
		return
	}
	if err != nil {
		// already reported through the failure event
		ui.logger.WithError(err).WithField("build", id).Debug("acquire rejected")
	}
}

// onRevealClick opens the selected build's instance directory
func (ui *RootUI) onRevealClick() {
	id := ui.selectedID()
	if id == "" {
		return
	}

	dir := ui.instanceDir(id)
	if err := platform.OpenFolder(dir); err != nil {
		ui.logger.WithError(err).WithField("dir", dir).Warn("failed to open folder")
		ui.messageLabel.SetText(ui.localization.GetText(KeyErrorOpeningDir) + ": " + err.Error())
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	catalogPath := ui.settings.GetCatalogPath()
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.messageLabel.SetText(ui.localization.GetText(KeySettingsSaved))
		if ui.settings.GetCatalogPath() != catalogPath {
			ui.Refresh()
		}
		if ui.onSettingsSaved != nil {
			ui.onSettingsSaved()
		}
	})
}

// instanceDir returns where the build was last extracted, or where the
// orchestrator would extract it
func (ui *RootUI) instanceDir(id string) string {
	ui.mu.RLock()
	dir := ui.statuses[id].InstanceDir
	ui.mu.RUnlock()
	if dir != "" {
		return dir
	}
	return acquire.InstanceDir(ui.settings, ui.paths, id)
}

func (ui *RootUI) selectedID() string {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return ui.selected
}

func (ui *RootUI) entry(id string) (model.BuildEntry, bool) {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	if i := indexOf(ui.builds, id); i >= 0 {
		return ui.builds[i], true
	}
	return model.BuildEntry{}, false
}

func (ui *RootUI) status(id string) BuildStatus {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return ui.statuses[id]
}

// indexOf returns the position of the first entry with id, or -1
func indexOf(entries []model.BuildEntry, id string) int {
	if id == "" {
		return -1
	}
	for i, entry := range entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}
