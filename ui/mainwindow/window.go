// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"rtl-scope/internal/app"
	"rtl-scope/internal/layoutfile"
	"rtl-scope/internal/scene"
	"rtl-scope/internal/version"
	"rtl-scope/ui/prefs"
	uiscene "rtl-scope/ui/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir    = "lastDirectory"
	prefKeyLastLayout = "lastLayout"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	view      *uiscene.CircuitView
	statusBar *widget.Label

	// Menu items that need state tracking
	lockItem   *fyne.MenuItem
	valuesItem *fyne.MenuItem
	valuesOn   bool
	locked     bool
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow("RTL Scope")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreLastLayout()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.view = uiscene.NewCircuitView(mw.state)
	mw.view.SetWindow(mw.Window)
	mw.view.OnLayoutActions(mw.onLoadLayoutFor, mw.onSaveLayoutFor)

	mw.statusBar = widget.NewLabel("Ready")
	mw.view.OnStatus(mw.updateStatus)
	mw.view.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", zoom*100))
	})

	toolbar := mw.createToolbar()

	viewArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.view.Container(),
	)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		viewArea,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1100, 750))
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.view.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.view.ZoomIn)
	actualBtn := widget.NewButton("1:1", mw.view.ActualSize)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load Layout...", mw.onLoadLayout),
		fyne.NewMenuItem("Save Layout", mw.onSaveLayout),
		fyne.NewMenuItem("Save Layout As...", mw.onSaveLayoutAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.valuesItem = fyne.NewMenuItem("  Show Output Values", mw.onToggleValues)
	mw.lockItem = fyne.NewMenuItem("  Lock Circuit", mw.onToggleLock)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.view.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.view.ZoomOut),
		fyne.NewMenuItem("Actual Size", mw.view.ActualSize),
		fyne.NewMenuItemSeparator(),
		mw.valuesItem,
		mw.lockItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventLayoutLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("RTL Scope - " + filepath.Base(path))
			mw.updateStatus("Layout loaded: " + path)
		}
	})

	mw.state.On(app.EventLayoutSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("RTL Scope - " + filepath.Base(path))
			mw.updateStatus("Layout saved: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	dir := filepath.Dir(filePath)
	mw.app.Preferences().SetString(prefKeyLastDir, dir)
}

// restoreLastLayout reapplies the layout used in the previous session.
func (mw *MainWindow) restoreLastLayout() {
	path := mw.app.Preferences().String(prefKeyLastLayout)
	if path == "" {
		return
	}
	if err := mw.state.LoadLayout(path); err != nil {
		mw.updateStatus("Could not restore layout: " + path)
		return
	}
	mw.state.SetModified(false)
}

// RestoreZoom applies the zoom level from the previous session.
func (mw *MainWindow) RestoreZoom(p *prefs.Prefs) {
	mw.view.SetZoom(p.FloatWithFallback("zoom", 1.0))
}

// SaveZoom records the current zoom level for the next session.
func (mw *MainWindow) SaveZoom(p *prefs.Prefs) {
	p.SetFloat("zoom", mw.view.GetZoom())
}

// Menu action handlers

func (mw *MainWindow) onLoadLayout() { mw.onLoadLayoutFor(mw.state.Root) }

// onLoadLayoutFor opens a layout file and applies it to n's subtree. The
// root goes through the state so the layout path and title track it;
// loading into an inner node only reroutes that component.
func (mw *MainWindow) onLoadLayoutFor(n *scene.Node) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		if n == mw.state.Root {
			if err := mw.state.LoadLayout(path); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.app.Preferences().SetString(prefKeyLastLayout, path)
			return
		}

		doc, err := layoutfile.Load(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if err := n.ApplyLayout(doc); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.SetModified(true)
		mw.updateStatus("Layout loaded into " + n.Component().Name() + ": " + path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{layoutfile.Extension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveLayout() {
	if mw.state.LayoutPath == "" {
		mw.onSaveLayoutAs()
		return
	}
	if _, err := mw.state.SaveLayout(mw.state.LayoutPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveLayoutAs() { mw.onSaveLayoutFor(mw.state.Root) }

// onSaveLayoutFor writes n's subtree layout to a chosen file. The root goes
// through the state so the layout path tracks it.
func (mw *MainWindow) onSaveLayoutFor(n *scene.Node) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		mw.saveLastDir(path)

		if n == mw.state.Root {
			final, err := mw.state.SaveLayout(path)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.app.Preferences().SetString(prefKeyLastLayout, final)
			return
		}

		final, err := layoutfile.Save(path, n.CaptureLayout())
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Layout of " + n.Component().Name() + " saved: " + final)
	}, mw.Window)
	fd.SetFileName(n.Component().Name() + layoutfile.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onToggleValues() {
	mw.valuesOn = !mw.valuesOn
	mw.view.SetOutputLabelsVisible(mw.valuesOn)
	if mw.valuesOn {
		mw.valuesItem.Label = "✓ Show Output Values"
	} else {
		mw.valuesItem.Label = "  Show Output Values"
	}
}

func (mw *MainWindow) onToggleLock() {
	mw.locked = !mw.locked
	mw.view.SetLocked(mw.locked)
	if mw.locked {
		mw.lockItem.Label = "✓ Lock Circuit"
		mw.updateStatus("Circuit locked")
	} else {
		mw.lockItem.Label = "  Lock Circuit"
		mw.updateStatus("Circuit unlocked")
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About RTL Scope",
		fmt.Sprintf("RTL Scope v%s\n\n"+
			"An interactive viewer for hierarchical circuit designs.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
