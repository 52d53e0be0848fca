package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/logger"
	"github.com/mkovtun/habitquest/internal/store"
	"github.com/mkovtun/habitquest/internal/tui"
)

type cli struct {
	DB    string `help:"Path to the database file." env:"HABITQUEST_DB"`
	Debug bool   `help:"Enable debug logging."      env:"HABITQUEST_DEBUG"`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("habitquest"),
		kong.Description("A gamified habit-tracking campaign in your terminal."),
	)

	dbPath := args.DB
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		dbPath = p
	}

	logger.Init(filepath.Dir(dbPath), args.Debug)

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	state, err := s.LoadState()
	if err != nil {
		logger.Warn("load state failed, starting fresh", "error", err)
		state = game.NewState()
	}

	app := tui.NewApp(s, state, game.NewClock())
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
