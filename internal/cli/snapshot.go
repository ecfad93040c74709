package cli

import (
	"strings"
	"time"

	"country-editor/internal/countrypicker"
	"country-editor/internal/format"
	"country-editor/internal/lawgrid"
	"country-editor/internal/loader"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(app *App) *cobra.Command {
	var check []string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load the default state and print the grid values",
		Long: strings.TrimSpace(`
Run a full load without the interactive editor and print the result: the
current value of every law selector per column, the resolved countries in
order, and the country summary.
`),
		Example: strings.TrimSpace(`
country-editor snapshot
country-editor snapshot --check AFG,FRA --format edn
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			grid := lawgrid.NewGridStore()
			picker := countrypicker.New()
			l := loader.New(s.client, grid, picker, s.opts...)

			started := time.Now()
			res, err := l.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			var unknown []string
			for _, code := range check {
				code = strings.TrimSpace(code)
				if code == "" {
					continue
				}
				if !picker.SetChecked(code, true) {
					unknown = append(unknown, code)
				}
			}
			if len(unknown) > 0 {
				return writeErr(cmd, errUnknownCountries(unknown))
			}
			res = l.Result()

			return writeOut(cmd, app, format.Envelope{
				Data: res,
				Meta: map[string]any{
					"api":       s.apiBase,
					"laws":      grid.Len(),
					"checked":   picker.Checked(),
					"elapsedMs": time.Since(started).Milliseconds(),
				},
			})
		},
	}

	cmd.Flags().StringSliceVar(&check, "check", nil, "Country codes to check before printing the summary")
	return cmd
}
