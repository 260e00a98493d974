// Command intake-tui runs the staff intake form in the terminal, submitting
// to the same endpoint as the web form.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emekaobi/staffintake/internal/config"
	"github.com/emekaobi/staffintake/internal/intake"
	"github.com/emekaobi/staffintake/internal/submit"
	"github.com/emekaobi/staffintake/internal/tui"
	"github.com/emekaobi/staffintake/pkg/logging"
)

func main() {
	configPath := flag.String("config", "intake.yaml", "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Terminal output belongs to bubbletea; keep logs out of it.
	client, err := submit.New(cfg.Endpoint.BaseURL,
		submit.WithToken(cfg.Endpoint.Token),
		submit.WithTimeout(cfg.Endpoint.Timeout),
		submit.WithLogger(logging.NopLogger{}))
	if err != nil {
		return fmt.Errorf("submit client: %w", err)
	}

	form := intake.NewForm(intake.Options{PhoneFormat: cfg.PhoneFormat})
	model := tui.NewModel(form, client)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
