// Command oxy-mol previews a molecular scene file.
//
// The scene is reconciled onto a headless scene model and, unless -window=false, drawn in an interactive
// window: drag to orbit, scroll to zoom, click atoms to select them. Keys: R rotate, L labels, A animation,
// C clear selection, F fit, 1/2/3 atom/residue/chain selection, Esc quit.
// With -ws-addr set, selection and scene-ready events are streamed to websocket clients at /ws, and clients
// may send {"type":"click","serial":N} to select atoms remotely.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine"
	"github.com/Carmen-Shannon/oxy-mol/engine/notify"
	"github.com/Carmen-Shannon/oxy-mol/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mol/engine/scene"
	"github.com/Carmen-Shannon/oxy-mol/engine/scenefile"
	"github.com/Carmen-Shannon/oxy-mol/engine/session"
	"github.com/Carmen-Shannon/oxy-mol/engine/style"
	"github.com/Carmen-Shannon/oxy-mol/engine/window"
)

func init() {
	// GLFW must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := loadConfig(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg Config) error {
	level, err := common.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := common.NewStdLogger(level)

	var props session.Props
	if cfg.Scene != "" {
		if props, err = scenefile.Load(cfg.Scene); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var eng engine.Engine
	hub := notify.NewHub(
		notify.WithLogger(logger),
		notify.WithClickHandler(func(serial int) {
			if err := eng.Session().Click(serial); err != nil {
				logger.Warnf("[Main] remote click on atom %d: %v", serial, err)
			}
		}),
	)
	defer hub.Close()

	sessionOptions := []session.SessionBuilderOption{
		session.WithSelectionChangedHandler(hub.SelectionChanged),
		session.WithSceneReadyHandler(hub.SceneReady),
	}
	if cfg.Workers > 0 {
		sessionOptions = append(sessionOptions, session.WithDiffOptions(style.WithWorkers(cfg.Workers)))
	}

	options := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithProfiling(cfg.Profile),
		engine.WithSessionOptions(sessionOptions...),
		engine.WithSize(cfg.Width, cfg.Height),
	}
	if cfg.Window {
		w := window.NewWindow(
			window.WithTitle(windowTitle(cfg.Scene)),
			window.WithWidth(cfg.Width),
			window.WithHeight(cfg.Height),
		)
		r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, w,
			renderer.WithPresentMode(renderer.PresentModeVSync),
			renderer.WithLogger(logger),
		)
		if err != nil {
			_ = w.Close()
			return err
		}
		options = append(options, engine.WithWindow(w), engine.WithRenderer(r))
	}

	sc := scene.NewScene(scene.WithLogger(logger))
	defer sc.Close()
	eng = engine.NewEngine(sc, options...)

	if err := eng.SetProps(props); err != nil {
		logger.Errorf("[Main] initial pass: %v", err)
	}

	go func() {
		<-ctx.Done()
		eng.Quit()
	}()

	if cfg.WSAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: cfg.WSAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Infof("[Main] websocket events on ws://%s/ws", cfg.WSAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("[Main] websocket server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Watch && cfg.Scene != "" {
		go func() {
			err := scenefile.Watch(ctx, cfg.Scene,
				func(p session.Props) {
					logger.Infof("[Main] %s changed, reconciling", cfg.Scene)
					if err := eng.SetProps(p); err != nil {
						logger.Errorf("[Main] pass after reload: %v", err)
					}
				},
				func(err error) { logger.Warnf("[Main] reload %s: %v", cfg.Scene, err) },
			)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("[Main] watch %s: %v", cfg.Scene, err)
			}
		}()
	}

	eng.Run()
	logger.Infof("[Main] bye")
	return nil
}

func windowTitle(scenePath string) string {
	if scenePath == "" {
		return "oxy-mol"
	}
	return fmt.Sprintf("oxy-mol - %s", scenePath)
}
