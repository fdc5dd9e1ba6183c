package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/gridfield/internal/config"
	"github.com/iburimskiy/gridfield/internal/game"
	"github.com/iburimskiy/gridfield/internal/logging"
	"github.com/iburimskiy/gridfield/internal/search"
	"github.com/iburimskiy/gridfield/internal/term"
)

var (
	// Global flags
	configPath string
	verbose    bool
	columns    int
	rows       int
	mode       string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gridfield",
	Short: "Pointer-reactive grid field",
	Long: `gridfield draws a grid of cells that light up and grow as the pointer
gets close, while a few random cells pulse on their own.

Run without a subcommand to open a window.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if columns > 0 {
			cfg.Grid.Columns = columns
		}
		if rows > 0 {
			cfg.Grid.Rows = rows
		}
		if mode != "" {
			cfg.Animation.Mode = mode
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := game.New(cfg, logger)
		if err != nil {
			return err
		}
		return game.Run(g)
	},
}

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Draw the grid in the terminal, driven by mouse motion",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The terminal is the UI; only log when a file is configured.
		if cfg.Logging.File == "" {
			logger = zap.NewNop()
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		app, err := term.New(screen, cfg, logger, nil)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return app.Run(ctx)
	},
}

var (
	imagePath string
	pickImage bool
	limit     int
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Query the search API by text or image",
	Long: `Sends a text query, or an image with --image/--pick, to the configured
search API and prints the ranked results.

Example:
  gridfield search "neon grid"
  gridfield search --image ./grid.png --limit 5`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := search.Request{Text: strings.Join(args, " "), Limit: limit}
	if req.Limit <= 0 {
		req.Limit = cfg.Search.Limit
	}

	switch {
	case pickImage:
		data, path, err := search.PickImage()
		if errors.Is(err, search.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("image selected", zap.String("path", path))
		req.Image = data
	case imagePath != "":
		data, err := search.LoadImage(imagePath)
		if err != nil {
			return err
		}
		req.Image = data
	}

	client, err := search.NewClient(cfg.Search.BaseURL, cfg.Search.Timeout, logger)
	if err != nil {
		return err
	}
	results, err := client.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(out, "%2d. %-40s %.3f  %s\n", i+1, r.Title, r.Score, r.URL)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "gridfield.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVar(&columns, "columns", 0, "grid columns (overrides config)")
	rootCmd.PersistentFlags().IntVar(&rows, "rows", 0, "grid rows (overrides config)")
	rootCmd.PersistentFlags().StringVar(&mode, "animation", "", "animation mode: stable or reroll")

	searchCmd.Flags().StringVar(&imagePath, "image", "", "search by the image at this path")
	searchCmd.Flags().BoolVar(&pickImage, "pick", false, "choose the image with a file dialog")
	searchCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results")
	searchCmd.MarkFlagsMutuallyExclusive("image", "pick")

	rootCmd.AddCommand(termCmd, searchCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
