// Package main provides the entry point for the RTL Scope application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"rtl-scope/internal/app"
	"rtl-scope/internal/sim"
	"rtl-scope/ui/mainwindow"
	"rtl-scope/ui/prefs"
)

const (
	appTitle   = "RTL Scope"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	fyneApp := fyneapp.NewWithID("rtl-scope")
	fyneApp.Settings().SetTheme(&app.ScopeTheme{})

	appState, err := app.NewState(sim.Demo())
	if err != nil {
		log.Fatalf("Failed to build the visual tree: %v", err)
	}
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState)
	win.RestoreZoom(appPrefs)

	// A layout file given on the command line wins over the remembered one.
	if len(os.Args) > 1 {
		layoutPath := os.Args[1]
		if err := appState.LoadLayout(layoutPath); err != nil {
			log.Printf("Failed to load layout %s: %v", layoutPath, err)
		}
	}

	win.SetCloseIntercept(func() {
		win.SaveZoom(appPrefs)
		if err := appPrefs.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
		win.Close()
	})

	setupHotReload()

	win.ShowAndRun()
}

// setupHotReload restarts the process when a newer binary appears. Only
// useful while iterating with go build; harmless otherwise.
func setupHotReload() {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s", reloader.ExecPath())
	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected, restarting...")
		if err := reloader.Restart(); err != nil {
			log.Printf("Hot reload: restart failed: %v", err)
			reloader.ResetBaseline()
			reloader.Start()
		}
	})
	reloader.Start()
}
