package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"country-editor/internal/api"
	"country-editor/internal/format"
	"country-editor/internal/loader"
	"country-editor/internal/store"
	"country-editor/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	APIBase     string
	Format      string
	PrettyJSON  bool
	Concurrency int
	NameCache   bool
	Timeout     time.Duration

	cfg store.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "country-editor",
		Short:        "Law grid editor for country default states",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor against the default API
  country-editor

  # Point at another game data service
  country-editor --api http://127.0.0.1:9000

  # Print the grid and the resolved countries
  country-editor snapshot --pretty

  # Serve a local default state for the editor
  country-editor serve --state state.yaml --names country_data.tsv --watch
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive editor.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.resolve(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.APIBase, "api", envOr("COUNTRY_EDITOR_API", ""), "Game data service origin (default from config, then "+store.DefaultAPIBase+")")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("COUNTRY_EDITOR_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().IntVar(&app.Concurrency, "concurrency", envIntOr("COUNTRY_EDITOR_CONCURRENCY", 0), "Parallel country name lookups (1 = sequential)")
	cmd.PersistentFlags().BoolVar(&app.NameCache, "name-cache", envBoolOr("COUNTRY_EDITOR_NAME_CACHE", false), "Cache resolved country names in the config dir")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 0, "Per-request timeout (default from config, then 30s)")

	cmd.AddCommand(newSnapshotCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newCacheCmd(app))

	return cmd
}

// resolve fills everything the flags and env left unset from the config
// file, then from defaults.
func (app *App) resolve(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, fmt.Errorf("load config: %w", err))
	}
	app.cfg = *cfg
	c := cfg.WithDefaults()

	if strings.TrimSpace(app.APIBase) == "" {
		app.APIBase = c.APIBase
	}
	if app.Concurrency <= 0 {
		app.Concurrency = c.Concurrency
	}
	if !cmd.Flags().Changed("name-cache") && os.Getenv("COUNTRY_EDITOR_NAME_CACHE") == "" {
		app.NameCache = c.NameCache
	}
	if app.Timeout <= 0 {
		app.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if _, err := format.Normalize(app.Format); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// session is what a command needs to run a load.
type session struct {
	client  *api.Client
	opts    []loader.Option
	store   store.Store
	cache   *store.NameCache
	apiBase string
}

func (s *session) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

func openSession(ctx context.Context, app *App) (*session, error) {
	client, err := api.NewClient(app.APIBase, api.WithHTTPClient(&http.Client{Timeout: app.Timeout}))
	if err != nil {
		return nil, err
	}
	st, err := store.Default()
	if err != nil {
		return nil, err
	}
	s := &session{
		client:  client,
		opts:    []loader.Option{loader.WithConcurrency(app.Concurrency)},
		store:   st,
		apiBase: client.BaseURL(),
	}
	if app.NameCache {
		cache, err := st.OpenNameCache(ctx)
		if err != nil {
			return nil, fmt.Errorf("open name cache: %w", err)
		}
		s.cache = cache
		s.opts = append(s.opts, loader.WithNameResolver(store.CachedResolver{Cache: cache, Next: client}))
	}
	return s, nil
}

// runProgram is swapped out in tests that cannot open a terminal.
var runProgram = tui.Run

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	var glyphs, mdStyle string
	if app.cfg.TUI != nil {
		glyphs = app.cfg.TUI.Glyphs
		mdStyle = app.cfg.TUI.MarkdownStyle
	}
	err = runProgram(cmd.Context(), tui.Options{
		Source:        s.client,
		LoaderOptions: s.opts,
		APIBase:       s.apiBase,
		Store:         s.store,
		Glyphs:        envOr("COUNTRY_EDITOR_TUI_GLYPHS", glyphs),
		MarkdownStyle: mdStyle,
		Debug:         tui.DebugEnabled(),
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envIntOr(k string, d int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envBoolOr(k string, d bool) bool {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
