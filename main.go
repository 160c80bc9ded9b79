package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/cryptic/apps/go-server/internal/catalog"
	"github.com/robalobadob/cryptic/apps/go-server/internal/config"
	"github.com/robalobadob/cryptic/apps/go-server/internal/daily"
	"github.com/robalobadob/cryptic/apps/go-server/internal/game"
	"github.com/robalobadob/cryptic/apps/go-server/internal/httpserver"
	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
	"github.com/robalobadob/cryptic/apps/go-server/internal/store"
	"github.com/robalobadob/cryptic/apps/go-server/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cryptic",
		Short: "Daily cryptic crossword server and terminal client",
		Long: `cryptic serves a small daily cryptic crossword over HTTP and can
play it in the terminal. Puzzles are JSON files; a few are bundled and
more can be imported into the SQLite catalog.`,
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().String("port", "", "HTTP port (overrides PORT)")
	serveCmd.Flags().String("db", "", "SQLite catalog path (overrides DB_PATH)")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play a puzzle in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	playCmd.Flags().String("puzzle", "", "Puzzle id (default: today's puzzle)")
	playCmd.Flags().String("file", "", "Play a puzzle JSON file instead of the catalog")
	playCmd.Flags().String("log", "", "Write logs to this file while playing")

	validateCmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check puzzle files against the grid and entry rules",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}

	importCmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Validate puzzle files and store them in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}
	importCmd.Flags().String("db", "", "SQLite catalog path (overrides DB_PATH)")

	hashCmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHashPassword,
	}

	rootCmd.AddCommand(serveCmd, playCmd, validateCmd, importCmd, hashCmd)
	return rootCmd
}

// loadConfig reads .env and the environment and sets the global log level.
func loadConfig() config.Config {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.Level())
	return cfg
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if v, _ := cmd.Flags().GetString("port"); v != "" {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if cfg.DevSecret() {
		if cfg.Production {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Warn().Msg("using development JWT secret")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error().Err(err).Str("db", cfg.DBPath).Msg("failed to open catalog")
		return err
	}
	defer cat.Close()

	var puzzles catalog.Source = cat
	if cfg.PuzzleFile != "" {
		puzzles = catalog.File{Path: cfg.PuzzleFile}
		log.Info().Str("file", cfg.PuzzleFile).Msg("serving puzzle file")
	}

	sessions := store.NewMemoryStore(cfg.SessionTTL)
	go store.RunSweeper(ctx, sessions, time.Minute)

	srv := httpserver.New(cfg, sessions, puzzles, cat)
	log.Info().Str("port", cfg.Port).Msg("starting go-server")
	if err := srv.Serve(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	file, _ := cmd.Flags().GetString("file")
	id, _ := cmd.Flags().GetString("puzzle")
	logPath, _ := cmd.Flags().GetString("log")

	// The terminal belongs to the UI; logs go to a file or nowhere.
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(io.Discard)
	}

	ctx := cmd.Context()
	var src catalog.Source
	switch {
	case file != "":
		src = catalog.File{Path: file}
	default:
		cat, err := catalog.Open(ctx, cfg.DBPath)
		if err != nil {
			log.Warn().Err(err).Msg("catalog unavailable, using bundled puzzles")
			src = catalog.Embedded{}
		} else {
			defer cat.Close()
			src = cat
		}
	}
	if id == "" && file == "" {
		today, err := daily.PuzzleID(ctx, src, cfg.DailySalt, time.Now())
		if err != nil {
			log.Warn().Err(err).Msg("no daily puzzle")
		}
		id = today
	}

	p := catalog.Load(ctx, src, id)
	sess := game.New(p, game.WithNotifier(game.NotifierFunc(func(ev game.SolvedEvent) {
		log.Info().Str("entry", ev.EntryID).Bool("hints", ev.HintsUsed).Bool("gave_up", ev.GaveUp).
			Bool("complete", ev.Complete).Msg("entry solved")
	})))
	if err := tui.Run(sess); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sess.Share())
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		p, err := parseFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s\n", path)
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "     %s\n", line)
			}
			continue
		}
		fmt.Fprintf(out, "ok   %s  %s %d×%d, %d entries\n", path, p.ID, p.Rows(), p.Cols(), len(p.Index.Entries()))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d puzzle files invalid", failed, len(args))
	}
	return nil
}

func parseFile(path string) (*puzzle.Puzzle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return puzzle.Parse(raw)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	ctx := cmd.Context()
	cat, err := catalog.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	out := cmd.OutOrStdout()
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		p, err := cat.Put(ctx, raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(out, "imported %s from %s\n", p.ID, path)
	}
	return nil
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var pw string
	if len(args) == 1 {
		pw = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	if pw == "" {
		return fmt.Errorf("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}
