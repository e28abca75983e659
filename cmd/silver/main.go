// cmd/silver/main.go
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/config"
	"github.com/nhath/silver/internal/history"
	"github.com/nhath/silver/internal/recent"
	"github.com/nhath/silver/internal/storage"
	"github.com/nhath/silver/internal/ui"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging to debug.log")
	apiURL := flag.String("api-url", "", "Query service base URL (overrides config and "+config.EnvAPIURL+")")
	setToken := flag.Bool("set-token", false, "Read an API token from stdin, store it encrypted and exit")
	flag.Parse()

	// The TUI owns the terminal: logs go to a file or nowhere
	log.SetOutput(io.Discard)
	if *debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: could not open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if *setToken {
		if err := storeToken(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to store token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Token saved.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}

	dbPath, err := storage.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to locate data directory: %v\n", err)
		os.Exit(1)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	mru, err := recent.Load(recent.NewSQLBackend(db))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load recent clients: %v\n", err)
		os.Exit(1)
	}

	client := api.NewHTTPClient(cfg.APIURL,
		api.WithToken(cfg.APIToken),
		api.WithTimeout(cfg.RequestTimeout()),
	)
	log.Printf("silver: using query service at %s", client.BaseURL())

	model := ui.NewModel(cfg, client, history.NewStore(db), mru)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func storeToken(in io.Reader) error {
	fmt.Fprint(os.Stderr, "API token: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	return config.StoreAPIToken(strings.TrimSpace(line))
}
