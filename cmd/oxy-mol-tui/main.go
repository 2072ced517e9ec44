// Command oxy-mol-tui inspects a molecular scene file in the terminal.
//
// Usage:
//
//	oxy-mol-tui [flags] <scene>
//
// Flags:
//
//	--watch      Reload the scene when the file changes
//	--log-file   Append engine logs to this file (the terminal is owned by the UI)
//	--log-level  debug, info, warn or error (default: info)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine"
	"github.com/Carmen-Shannon/oxy-mol/engine/inspector"
	"github.com/Carmen-Shannon/oxy-mol/engine/scene"
	"github.com/Carmen-Shannon/oxy-mol/engine/scenefile"
	"github.com/Carmen-Shannon/oxy-mol/engine/session"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	watch := flag.Bool("watch", false, "Reload the scene when the file changes")
	logFile := flag.String("log-file", "", "Append engine logs to this file")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: oxy-mol-tui [flags] <scene>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	var logger common.Logger = common.NoOpLogger{}
	if *logFile != "" {
		level, err := common.ParseLogLevel(*logLevel)
		if err != nil {
			log.Fatal(err)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file %s: %v", *logFile, err)
		}
		defer f.Close()
		logger = common.NewStdLoggerWith(level, log.New(f, "", log.LstdFlags))
	}

	props, err := scenefile.Load(path)
	if err != nil {
		log.Fatalf("Failed to load scene %s: %v", path, err)
	}

	var p *tea.Program
	sc := scene.NewScene(scene.WithLogger(logger))
	defer sc.Close()

	eng := engine.NewEngine(sc,
		engine.WithLogger(logger),
		engine.WithSessionOptions(session.WithSelectionChangedHandler(func(ids []int) {
			// Clicks made from the UI arrive here inside Update; Send would block the event loop.
			if p != nil {
				go p.Send(inspector.SelectionChangedMsg(ids))
			}
		})),
	)
	defer eng.Session().Close()

	if err := eng.SetProps(props); err != nil {
		log.Fatalf("Failed to apply scene %s: %v", path, err)
	}

	p = tea.NewProgram(inspector.NewModel(eng, path), tea.WithAltScreen())

	if *watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			err := scenefile.Watch(ctx, path,
				func(next session.Props) {
					if err := eng.SetProps(next); err != nil {
						p.Send(inspector.ErrMsg{Err: err})
					}
				},
				func(err error) { p.Send(inspector.ErrMsg{Err: err}) },
			)
			if err != nil && ctx.Err() == nil {
				p.Send(inspector.ErrMsg{Err: err})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
