package cli

import (
	"country-editor/internal/format"

	"github.com/spf13/cobra"
)

func newCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the country name cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count cached country names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNameCache(cmd, app, func(n int, purge func() error) error {
				return writeOut(cmd, app, format.Envelope{Data: map[string]any{"entries": n}})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop every cached country name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNameCache(cmd, app, func(n int, purge func() error) error {
				if err := purge(); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, format.Envelope{Data: map[string]any{"purged": n}})
			})
		},
	})

	return cmd
}

func withNameCache(cmd *cobra.Command, app *App, fn func(n int, purge func() error) error) error {
	s, err := openSession(cmd.Context(), &App{
		APIBase:     app.APIBase,
		Concurrency: app.Concurrency,
		Timeout:     app.Timeout,
		NameCache:   true,
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	ctx := cmd.Context()
	n, err := s.cache.Len(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	return fn(n, func() error { return s.cache.Purge(ctx) })
}
