package ui

import (
	"sort"

	"github.com/ytget/launcher/internal/model"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeyRefresh           = "refresh"
	KeyReveal            = "reveal"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyInstanceDirectory = "instance_directory"
	KeyCatalogPath       = "catalog_path"
	KeyDebugLogging      = "debug_logging"
	KeyDefaultLocation   = "default_location"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeySelectBuild       = "select_build"
	KeyNoBuilds          = "no_builds"
	KeyBuildsLoaded      = "builds_loaded"
	KeyCatalogFailed     = "catalog_failed"
	KeyAlreadyRunning    = "already_running"
	KeyAcquireCompleted  = "acquire_completed"
	KeyAcquireFailed     = "acquire_failed"
	KeyErrorOpeningDir   = "error_opening_dir"
	KeyNoDescription     = "no_description"

	KeyStateIdle       = "state_idle"
	KeyStateResolving  = "state_resolving"
	KeyStateFetching   = "state_fetching"
	KeyStateExtracting = "state_extracting"
	KeyStateSucceeded  = "state_succeeded"
	KeyStateFailed     = "state_failed"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown codes are ignored.
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if text, found := l.texts[l.currentLanguage][key]; found {
		return text
	}
	// Fallback to English, then the key itself
	if text, found := l.texts["en"][key]; found {
		return text
	}
	return key
}

// StateText returns the localized name of an acquisition state
func (l *Localization) StateText(state model.AcquisitionState) string {
	switch state {
	case model.StateResolving:
		return l.GetText(KeyStateResolving)
	case model.StateFetching:
		return l.GetText(KeyStateFetching)
	case model.StateExtracting:
		return l.GetText(KeyStateExtracting)
	case model.StateSucceeded:
		return l.GetText(KeyStateSucceeded)
	case model.StateFailed:
		return l.GetText(KeyStateFailed)
	default:
		return l.GetText(KeyStateIdle)
	}
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// LanguageCodes returns the available language codes in a stable order
func (l *Localization) LanguageCodes() []string {
	codes := make([]string, 0, len(l.texts))
	for code := range l.texts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Launcher",
		KeyDownload:          "Download",
		KeyRefresh:           "Refresh",
		KeyReveal:            "Open folder",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyInstanceDirectory: "Instance Directory",
		KeyCatalogPath:       "Catalog File",
		KeyDebugLogging:      "Debug logging",
		KeyDefaultLocation:   "Default location",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",
		KeySelectBuild:       "Select a build",
		KeyNoBuilds:          "No builds available",
		KeyBuildsLoaded:      "Builds loaded",
		KeyCatalogFailed:     "Catalog could not be loaded",
		KeyAlreadyRunning:    "Already downloading",
		KeyAcquireCompleted:  "Build ready",
		KeyAcquireFailed:     "Build failed",
		KeyErrorOpeningDir:   "Error opening folder",
		KeyNoDescription:     "No description",
		KeyStateIdle:         "Not installed",
		KeyStateResolving:    "Resolving",
		KeyStateFetching:     "Downloading",
		KeyStateExtracting:   "Extracting",
		KeyStateSucceeded:    "Installed",
		KeyStateFailed:       "Failed",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Лаунчер",
		KeyDownload:          "Скачать",
		KeyRefresh:           "Обновить",
		KeyReveal:            "Открыть папку",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyInstanceDirectory: "Папка сборок",
		KeyCatalogPath:       "Файл каталога",
		KeyDebugLogging:      "Отладочный журнал",
		KeyDefaultLocation:   "По умолчанию",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeySelectBuild:       "Выберите сборку",
		KeyNoBuilds:          "Нет доступных сборок",
		KeyBuildsLoaded:      "Сборки загружены",
		KeyCatalogFailed:     "Не удалось загрузить каталог",
		KeyAlreadyRunning:    "Уже загружается",
		KeyAcquireCompleted:  "Сборка готова",
		KeyAcquireFailed:     "Ошибка сборки",
		KeyErrorOpeningDir:   "Ошибка открытия папки",
		KeyNoDescription:     "Нет описания",
		KeyStateIdle:         "Не установлена",
		KeyStateResolving:    "Поиск",
		KeyStateFetching:     "Загрузка",
		KeyStateExtracting:   "Распаковка",
		KeyStateSucceeded:    "Установлена",
		KeyStateFailed:       "Ошибка",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Launcher",
		KeyDownload:          "Baixar",
		KeyRefresh:           "Atualizar",
		KeyReveal:            "Abrir pasta",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyDownloadDirectory: "Diretório de Download",
		KeyInstanceDirectory: "Diretório de Instâncias",
		KeyCatalogPath:       "Arquivo de Catálogo",
		KeyDebugLogging:      "Log de depuração",
		KeyDefaultLocation:   "Local padrão",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeySelectBuild:       "Selecione uma build",
		KeyNoBuilds:          "Nenhuma build disponível",
		KeyBuildsLoaded:      "Builds carregadas",
		KeyCatalogFailed:     "Não foi possível carregar o catálogo",
		KeyAlreadyRunning:    "Já está baixando",
		KeyAcquireCompleted:  "Build pronta",
		KeyAcquireFailed:     "Falha na build",
		KeyErrorOpeningDir:   "Erro ao abrir pasta",
		KeyNoDescription:     "Sem descrição",
		KeyStateIdle:         "Não instalada",
		KeyStateResolving:    "Resolvendo",
		KeyStateFetching:     "Baixando",
		KeyStateExtracting:   "Extraindo",
		KeyStateSucceeded:    "Instalada",
		KeyStateFailed:       "Falhou",
	}
}
