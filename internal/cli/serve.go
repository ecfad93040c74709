package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"country-editor/internal/format"
	"country-editor/internal/stateserver"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr         string
		statePath    string
		namesPath    string
		resourcesDir string
		watch        bool
		doubleEncode bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a default state and country names from local files",
		Long: strings.TrimSpace(`
Serve the endpoints the editor reads from local files:

- GET /api/defaultstate       the state file (JSON or YAML, key order kept)
- GET /api/countryname/{code} from a tab separated country table, "N/A" if unknown
- GET /resources/{file}       images from --resources
`),
		Example: strings.TrimSpace(`
country-editor serve --state state.json
country-editor serve --addr :8000 --state state.yaml --names country_data.tsv --resources ./resources --watch
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}

			srv, err := stateserver.NewServer(stateserver.ServerConfig{
				Addr:         listenAddr,
				StatePath:    statePath,
				NamesPath:    namesPath,
				ResourcesDir: resourcesDir,
				DoubleEncode: doubleEncode,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr

			_ = writeOut(cmd, app, format.Envelope{
				Data: map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"state":     statePath,
					"names":     namesPath,
					"resources": resourcesDir,
					"watch":     watch,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				Hints: []string{"country-editor --api " + url},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "State server running at %s\n", url)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if watch {
				go func() {
					err := srv.Watch(ctx, func(err error) {
						if err != nil {
							fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
							return
						}
						fmt.Fprintf(cmd.ErrOrStderr(), "reloaded %s\n", statePath)
					})
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "watch stopped: %v\n", err)
					}
				}()
			}

			hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-ctx.Done()
				_ = hs.Close()
			}()
			if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&statePath, "state", envOr("COUNTRY_EDITOR_STATE", ""), "Default state file (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&namesPath, "names", envOr("COUNTRY_EDITOR_NAMES", ""), "Country table (tab separated, name in column 1, code in column 5)")
	cmd.Flags().StringVar(&resourcesDir, "resources", "", "Directory served under /resources/")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the state and names files when they change")
	cmd.Flags().BoolVar(&doubleEncode, "double-encode", false, "Answer /api/defaultstate as a JSON string holding the document")
	return cmd
}
