package cli

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/diewo77/invoice-dashboard/internal/search"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const listingPath = "/dashboard/invoices"

func newSearchCmd() *cobra.Command {
	var (
		configPath string
		server     string
		delayFlag  string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search invoices as you type",
		Long: "Reads search terms from stdin, one per line, and debounces them like the dashboard's search box. " +
			"Each applied term replaces the query parameter, resets to page 1 and prints the resulting listing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.Server = server
			}
			if cmd.Flags().Changed("delay") {
				d, err := parseDelay(delayFlag)
				if err != nil {
					return err
				}
				cfg.Delay = d
			}

			return runSearch(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML file with server and delay")
	cmd.Flags().StringVar(&server, "server", "", "dashboard base URL (default http://localhost:8080)")
	cmd.Flags().StringVar(&delayFlag, "delay", "", "debounce delay, e.g. 300ms (default 1s)")
	return cmd
}

func runSearch(in io.Reader, out io.Writer, cfg Config) error {
	var mu sync.Mutex
	nav := search.NewHTTPNavigator(cfg.Server)
	nav.OnListing = func(target string, l search.Listing) {
		mu.Lock()
		defer mu.Unlock()
		renderListing(out, target, l)
	}
	nav.OnError = func(target string, err error) {
		mu.Lock()
		defer mu.Unlock()
		renderError(out, target, err)
	}

	qs, err := search.NewDefaultQuerySync(listingPath, nav, cfg.Delay)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		qs.HandleInput(scanner.Text())
	}
	qs.Drain()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func parseDelay(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --delay %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid --delay %q: must not be negative", s)
	}
	return d, nil
}
