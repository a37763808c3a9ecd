package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zappabad/cdamarket/internal/config"
	"github.com/zappabad/cdamarket/internal/game"
	"github.com/zappabad/cdamarket/internal/logging"
	"github.com/zappabad/cdamarket/internal/results"
	"github.com/zappabad/cdamarket/tui"
)

func main() {
	cfgPath := flag.String("config", "", "path to a YAML config file")
	envPath := flag.String("env", "", "path to a .env file (default ./.env)")
	export := flag.Bool("export", false, "write CSV results on exit")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		fail(err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fail(err)
	}

	// The terminal belongs to the TUI; logs only go to a file.
	log, err := logging.NewFileOnly(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fail(err)
	}
	defer log.Sync()

	gcfg := game.DefaultConfig()
	gcfg.Sim = cfg.Sim()
	gcfg.Runner = cfg.Runner()

	g, err := game.NewGame(gcfg, log)
	if err != nil {
		fail(err)
	}
	defer g.Close()

	p := tea.NewProgram(tui.NewModel(g), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if *export {
		g.Close()
		paths, err := results.WriteAll(cfg.Output.Dir, g.Results(), time.Now())
		if err != nil {
			fail(err)
		}
		for _, path := range paths {
			fmt.Println(path)
		}
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "cdatui: %v\n", err)
	os.Exit(1)
}
