package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/soar/padchord/internal/action"
	"github.com/soar/padchord/internal/config"
	"github.com/soar/padchord/internal/dispatch"
	"github.com/soar/padchord/internal/engine"
	"github.com/soar/padchord/internal/gamepad"
	"github.com/soar/padchord/internal/gamepad/sdlpad"
	"github.com/soar/padchord/internal/haptic"
	"github.com/soar/padchord/internal/hub"
	"github.com/soar/padchord/internal/inject"
	"github.com/soar/padchord/internal/log"
	"github.com/soar/padchord/internal/server"
	"github.com/soar/padchord/internal/tray"
	"github.com/soar/padchord/internal/zone"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		log.Error("invalid configuration", "err", err)
		return 1
	}
	log.Init(cfg.Log.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer cancel()

	injectOpts := inject.Options{
		Backend:    cfg.Backend,
		Display:    cfg.X11.Display,
		UinputPath: cfg.Uinput.Path,
	}
	openBackend := func() (inject.Backend, error) {
		return inject.Open(injectOpts)
	}
	backend, err := openBackend()
	if err != nil {
		log.Error("failed to open injection backend", "backend", cfg.Backend, "err", err)
		return 1
	}
	defer inject.GuardFor(injectOpts, openBackend).Release()

	var wg sync.WaitGroup

	// Injection goroutine: owns the backend until the batch channel closes.
	batches := make(chan dispatch.Batch, cfg.Dispatch.Capacity)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer backend.Close()
		defer inject.Guard{Owner: backend}.Release()
		dispatch.Drain(context.Background(), batches, inject.NewInjector(backend))
	}()

	src := newSource(cfg)
	opts := engine.Options{
		Tick: cfg.Tick,
		Classifier: zone.Classifier{
			DeadBand:     cfg.Zone.DeadBand,
			GuardDegrees: cfg.Zone.GuardDegrees,
		},
		Pointer: engine.PointerOptions{
			Enabled:  cfg.Pointer.Enabled,
			Speed:    cfg.Pointer.Speed,
			DeadZone: cfg.Pointer.DeadZone,
		},
	}

	var pulser *haptic.Pulser
	if cfg.Haptic.Enabled {
		if r, ok := src.(gamepad.Rumbler); ok {
			pulser = haptic.NewPulser(cfg.Haptic.Capacity, cfg.Haptic.Duration)
			opts.Haptic = pulser
			wg.Add(1)
			go func() {
				defer wg.Done()
				pulser.Run(context.Background(), r)
			}()
		} else {
			log.Info("haptic feedback unavailable for source", "source", cfg.Source)
		}
	}

	// Monitor: hub, broadcaster and HTTP server live until the engine stops.
	var srv *server.Server
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	if cfg.Monitor.Enabled {
		snapshots := make(chan engine.Snapshot, 64)
		opts.Snapshots = snapshots

		h := hub.NewHub()
		go h.Run(monitorCtx)
		b := hub.NewBroadcaster(h, snapshots)
		go b.Run(monitorCtx)

		srv, err = server.New(h, b, getWebFS(), cfg.Monitor.Addr)
		if err != nil {
			log.Error("failed to start monitor", "err", err)
			close(batches)
			wg.Wait()
			return 1
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("monitor server error", "err", err)
				cancel()
			}
		}()
	}

	if cfg.Tray.Enabled {
		url := ""
		if cfg.Monitor.Enabled {
			url = "http://" + cfg.Monitor.Addr
		}
		t := tray.New(url, func() {
			log.Info("shutdown requested from tray")
			cancel()
		})
		go t.Run(tray.GetIcon())
		defer t.Quit()
	}

	log.Info("padchord started", "source", cfg.Source, "backend", cfg.Backend)
	runErr := engine.New(action.NewTables(), batches, opts).Run(ctx, src)

	close(batches)
	if pulser != nil {
		pulser.Close()
	}
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("monitor shutdown error", "err", err)
		}
		shutdownCancel()
	}
	stopMonitor()
	wg.Wait()

	if runErr != nil {
		log.Error("stopped", "err", runErr)
		return 1
	}
	log.Info("padchord stopped")
	return 0
}

func newSource(cfg *config.Config) gamepad.Source {
	if cfg.Source == "evdev" {
		return gamepad.NewEvdevSource(cfg.Evdev.Device, cfg.Evdev.AxisMax, cfg.Evdev.TriggerMax)
	}
	return sdlpad.NewSource()
}
