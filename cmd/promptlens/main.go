package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptlens/promptlens/internal/apiclient"
	"github.com/promptlens/promptlens/internal/session"
	"github.com/promptlens/promptlens/internal/tui"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "promptlens server base URL")
	reset := flag.Bool("reset", false, "forget the stored API key and exit")
	flag.Parse()

	stateDir := os.Getenv("PROMPTLENS_STATE_DIR")
	if strings.TrimSpace(stateDir) == "" {
		stateDir = ".promptlens"
	}

	sess, err := session.Open(stateDir)
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	if *reset {
		if err := sess.Reset(); err != nil {
			log.Fatalf("reset: %v", err)
		}
		fmt.Println("API key forgotten")
		return
	}

	api := apiclient.New(*server)

	// Best effort; without the list the server default model is used.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	modelList, err := api.Models(ctx)
	cancel()
	if err != nil {
		log.Printf("models: %v", err)
	}

	p := tea.NewProgram(tui.New(sess, api, modelList), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
