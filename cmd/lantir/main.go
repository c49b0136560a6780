package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/OldJobobo/lantir/internal/app"
	"github.com/OldJobobo/lantir/internal/config"
	"github.com/OldJobobo/lantir/internal/store"
	"github.com/OldJobobo/lantir/internal/world"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "lantir.toml", "path to the TOML config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("config load failed", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Data.WorldFile)
	if err != nil {
		logger.Error("world file open failed", "path", cfg.Data.WorldFile, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	w, err := st.LoadWorld()
	if err != nil {
		// A corrupt or incompatible world file is not fatal: start
		// empty and let the next save rewrite it.
		var perr *store.PersistenceError
		if !errors.As(err, &perr) {
			logger.Error("world load failed", "error", err)
			os.Exit(1)
		}
		logger.Warn("world file unusable, starting empty", "path", perr.Path, "error", perr.Err)
		w = world.New()
	}
	logger.Info("world loaded", "path", cfg.Data.WorldFile, "regions", w.Len())

	a := app.New(cfg, w, st, logger)

	// Reports named on the command line import before the window opens.
	for _, path := range flag.Args() {
		a.ImportFile(path)
	}

	// An empty imports dir turns the watcher off.
	if cfg.Imports.Dir != "" {
		watcher, err := app.NewWatcher(cfg.Imports.Dir, logger)
		if err != nil {
			logger.Warn("import watcher disabled", "dir", cfg.Imports.Dir, "error", err)
		} else {
			defer watcher.Close()
			a.SetImportQueue(watcher.Files())
		}
	}

	ebiten.SetWindowTitle("Lantir")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if err := ebiten.RunGame(a); err != nil {
		logger.Error("ui loop failed", "error", err)
		os.Exit(1)
	}
	if err := a.Shutdown(); err != nil {
		logger.Error("shutdown save failed", "error", err)
		os.Exit(1)
	}
}
