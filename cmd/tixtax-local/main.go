package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/service"
	"github.com/rocketscienceinc/tixtax-backend/internal/tui"
)

func main() {
	playerOne := flag.String("one", "player one", "name of the first player")
	playerTwo := flag.String("two", "player two", "name of the second player")
	withBot := flag.Bool("bot", false, "let the bot play the second player")
	flag.Parse()

	// honour NO_COLOR and CLICOLOR_FORCE
	lipgloss.SetColorProfile(termenv.EnvColorProfile())

	var bot service.BotService
	if *withBot {
		*playerTwo = "bot"
		bot = service.NewBotService(entity.MarkTwo, time.Now().UnixNano())
	}

	p := tea.NewProgram(tui.NewModel(*playerOne, *playerTwo, bot, entity.MarkTwo), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
