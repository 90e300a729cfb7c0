package config

import (
	"fyne.io/fyne/v2"

	"github.com/vidgrab/vidgrab/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir = "download_directory"
	KeyDarkMode    = "dark_mode"
)

// Default values
const (
	DefaultDarkMode = true
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetDarkMode returns whether the dark theme is enabled
func (s *Settings) GetDarkMode() bool {
	return s.app.Preferences().BoolWithFallback(KeyDarkMode, DefaultDarkMode)
}

// SetDarkMode sets whether the dark theme is enabled
func (s *Settings) SetDarkMode(dark bool) {
	s.app.Preferences().SetBool(KeyDarkMode, dark)
}
