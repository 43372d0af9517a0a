// Package tray shows a system tray icon with a menu to open the live monitor
// and to exit.
package tray

import (
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"

	"github.com/soar/padchord/internal/log"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	monitorURL   string
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuOpen     *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance. An empty monitorURL hides "Open Monitor".
func New(monitorURL string, shutdownFn ShutdownFunc) *Tray {
	return &Tray{
		monitorURL:   monitorURL,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

// Quit removes the icon; Run returns afterwards.
func (t *Tray) Quit() {
	t.shuttingDown.Store(true)
	systray.Quit()
}

// onReady is called when the tray is ready
func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("padchord")
	tooltip := "padchord"
	if t.monitorURL != "" {
		tooltip += " - " + t.monitorURL
		t.menuOpen = systray.AddMenuItem("Open Monitor", "Open the live monitor")
	}
	systray.SetTooltip(tooltip)
	t.menuExit = systray.AddMenuItem("Exit", "Quit padchord")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	log.Info("system tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	var openCh chan struct{}
	if t.menuOpen != nil {
		openCh = t.menuOpen.ClickedCh
	}
	for {
		select {
		case <-openCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

// onExit is called when the tray is exiting
func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Info("system tray exiting")
}

// openBrowser opens the monitor in the default web browser
func (t *Tray) openBrowser() {
	cmd := browserCommand(runtime.GOOS, t.monitorURL)
	if err := cmd.Start(); err != nil {
		log.Warn("failed to open browser", "err", err)
	}
}

func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
