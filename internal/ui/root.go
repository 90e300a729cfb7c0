package ui

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/vidgrab/vidgrab/internal/config"
	"github.com/vidgrab/vidgrab/internal/model"
	"github.com/vidgrab/vidgrab/internal/platform"
	"github.com/vidgrab/vidgrab/internal/progress"
	"github.com/vidgrab/vidgrab/internal/task"
)

// Resolver lists the selectable formats of a media URL.
type Resolver interface {
	Resolve(ctx context.Context, url string) (string, []model.FormatDescriptor, error)
}

// Downloader runs a selected download to disk, reporting progress to sink.
type Downloader interface {
	ToDisk(ctx context.Context, req model.DownloadRequest, sink progress.Sink) (string, error)
}

// RootUI represents the main UI structure
type RootUI struct {
	window   fyne.Window
	app      fyne.App
	settings *config.Settings

	resolver   Resolver
	downloader Downloader
	runner     *task.Runner

	urlEntry      *widget.Entry
	fetchBtn      *widget.Button
	pathEntry     *widget.Entry
	browseBtn     *widget.Button
	formatList    *widget.List
	downloadBtn   *widget.Button
	openFolderBtn *widget.Button
	darkCheck     *widget.Check
	progressBar   *widget.ProgressBar
	progressLabel *widget.Label
	statusLabel   *widget.Label

	title    string
	formats  []model.FormatDescriptor
	selected int
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, resolver Resolver, downloader Downloader) *RootUI {
	settings := config.NewSettings(app)

	// Ensure the configured directory exists
	downloadsDir := settings.GetDownloadDirectory()
	platform.CreateDirectoryIfNotExists(downloadsDir)

	ui := &RootUI{
		window:     window,
		app:        app,
		settings:   settings,
		resolver:   resolver,
		downloader: downloader,
		runner:     task.NewRunner(fyne.Do),
		selected:   -1,
	}

	window.SetTitle("vidgrab")
	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Enter video URL")
	ui.urlEntry.Validator = ui.validateURL
	// Trigger resolution when user presses Enter in the URL field
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onFetchClick()
	}

	ui.fetchBtn = widget.NewButton("Fetch Formats", ui.onFetchClick)
	topPanel := container.NewBorder(nil, nil, nil, ui.fetchBtn, ui.urlEntry)

	// Destination row; the entry only changes through the folder dialog
	ui.pathEntry = widget.NewEntry()
	ui.pathEntry.SetText(ui.settings.GetDownloadDirectory())
	ui.pathEntry.Disable()
	ui.browseBtn = widget.NewButton("Browse...", ui.onBrowseClick)
	pathPanel := container.NewBorder(nil, nil, widget.NewLabel("Save to:"), ui.browseBtn, ui.pathEntry)

	ui.formatList = widget.NewList(
		func() int { return len(ui.formats) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.TextStyle = fyne.TextStyle{Monospace: true}
			return label
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(ui.formats) {
				return
			}
			f := ui.formats[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%-10s | %-5s | %10s | %s",
				f.Resolution, f.Container, progress.Bytes(f.SizeBytes), f.Note))
		},
	)
	ui.formatList.OnSelected = func(id widget.ListItemID) {
		ui.selected = id
		ui.downloadBtn.Enable()
	}
	ui.formatList.OnUnselected = func(widget.ListItemID) {
		ui.selected = -1
	}

	ui.downloadBtn = widget.NewButton("Download", ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.downloadBtn.Disable()

	ui.openFolderBtn = widget.NewButton("Open Folder", ui.onOpenFolderClick)

	ui.darkCheck = widget.NewCheck("Dark Mode", ui.onDarkModeToggle)
	ui.darkCheck.SetChecked(ui.settings.GetDarkMode())

	ui.progressBar = widget.NewProgressBar()
	ui.progressLabel = widget.NewLabel("")
	ui.statusLabel = widget.NewLabel("Status: idle")

	actions := container.NewHBox(ui.downloadBtn, ui.openFolderBtn, ui.darkCheck)
	bottom := container.NewVBox(actions, ui.progressBar, ui.progressLabel, ui.statusLabel)

	content := container.NewBorder(
		container.NewVBox(topPanel, pathPanel), // top
		bottom,                                 // bottom
		nil,                                    // left
		nil,                                    // right
		ui.formatList,                          // center
	)

	ui.window.SetContent(content)
}

// validateURL validates the entered URL
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil // Empty is allowed
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return err
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

// onFetchClick resolves the entered URL into its selectable formats
func (ui *RootUI) onFetchClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		ui.setStatus("Please enter a URL")
		return
	}
	if err := ui.validateURL(urlText); err != nil {
		ui.setStatus("Invalid URL: " + err.Error())
		return
	}

	var (
		title   string
		formats []model.FormatDescriptor
	)
	err := ui.runner.Run(task.KindFetch,
		func() error {
			var err error
			title, formats, err = ui.resolver.Resolve(context.Background(), urlText)
			return err
		},
		func(err error) {
			ui.fetchBtn.Enable()
			if err != nil {
				log.Printf("Format resolution failed for %s: %v", urlText, err)
				ui.setStatus("Error: " + err.Error())
				return
			}
			ui.title = title
			ui.formats = formats
			ui.selected = -1
			ui.formatList.UnselectAll()
			ui.formatList.Refresh()
			ui.downloadBtn.Disable()
			ui.setStatus(fmt.Sprintf("%s — %d formats", title, len(formats)))
		},
	)
	if err != nil {
		ui.setStatus("A fetch is already running")
		return
	}

	ui.fetchBtn.Disable()
	ui.setStatus("Fetching formats...")
}

// onDownloadClick starts the download of the selected format
func (ui *RootUI) onDownloadClick() {
	if ui.selected < 0 || ui.selected >= len(ui.formats) {
		ui.setStatus("Select a format first")
		return
	}

	req := model.DownloadRequest{
		URL:            strings.TrimSpace(ui.urlEntry.Text),
		FormatID:       ui.formats[ui.selected].ID,
		Title:          ui.title,
		DestinationDir: ui.settings.GetDownloadDirectory(),
	}

	// Progress callbacks arrive on the engine goroutine; marshal them onto
	// the Fyne loop before touching widgets.
	sink := func(ev model.ProgressEvent) {
		fyne.Do(func() { ui.onProgress(ev) })
	}

	var savedPath string
	err := ui.runner.Run(task.KindDownload,
		func() error {
			var err error
			savedPath, err = ui.downloader.ToDisk(context.Background(), req, sink)
			return err
		},
		func(err error) {
			ui.downloadBtn.Enable()
			ui.fetchBtn.Enable()
			if err != nil {
				log.Printf("Download failed for %s: %v", req.URL, err)
				ui.setStatus("Error: " + err.Error())
				return
			}
			log.Printf("Download saved to %s", savedPath)
			ui.setStatus("Saved to " + savedPath)
		},
	)
	if err != nil {
		ui.setStatus("A download is already running")
		return
	}

	ui.downloadBtn.Disable()
	ui.fetchBtn.Disable()
	ui.progressBar.SetValue(0)
	ui.progressLabel.SetText("")
	ui.setStatus("Downloading...")
}

// onProgress renders one progress event. Runs on the Fyne loop.
func (ui *RootUI) onProgress(ev model.ProgressEvent) {
	switch ev.Phase {
	case model.PhaseDownloading:
		if pct, ok := ev.Percent(); ok {
			ui.progressBar.SetValue(pct / 100)
		}
		ui.progressLabel.SetText(progress.Line(ev))
	case model.PhaseFinished:
		ui.progressBar.SetValue(1)
		ui.progressLabel.SetText("Download complete, processing file...")
	case model.PhaseError:
		ui.progressLabel.SetText("")
	}
}

// onBrowseClick lets the user pick a new download directory
func (ui *RootUI) onBrowseClick() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return // Canceled; keep the current directory
		}
		path := dir.Path()
		ui.settings.SetDownloadDirectory(path)
		ui.pathEntry.SetText(path)
	}, ui.window)
}

// onOpenFolderClick reveals the download directory in the file manager
func (ui *RootUI) onOpenFolderClick() {
	dir := ui.settings.GetDownloadDirectory()
	platform.CreateDirectoryIfNotExists(dir)
	if err := platform.OpenFolder(dir); err != nil {
		log.Printf("Failed to open folder %s: %v", dir, err)
		ui.setStatus("Error: " + err.Error())
	}
}

// onDarkModeToggle switches the theme variant
func (ui *RootUI) onDarkModeToggle(dark bool) {
	ui.settings.SetDarkMode(dark)
	ui.app.Settings().SetTheme(NewAppTheme(dark))
}

func (ui *RootUI) setStatus(message string) {
	ui.statusLabel.SetText("Status: " + message)
}
