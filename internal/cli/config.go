package cli

import (
	"fmt"
	"strconv"
	"strings"

	"country-editor/internal/format"
	"country-editor/internal/store"

	"github.com/spf13/cobra"
)

var configKeys = []string{"api", "concurrency", "name-cache", "timeout", "tui.glyphs", "tui.markdown-style"}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.country-editor/config.json",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored config and the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{
				Data: app.cfg,
				Meta: map[string]any{
					"path": path,
					"effective": map[string]any{
						"api":            app.APIBase,
						"concurrency":    app.Concurrency,
						"nameCache":      app.NameCache,
						"timeoutSeconds": int(app.Timeout.Seconds()),
					},
				},
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value (" + strings.Join(configKeys, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if err := setConfigValue(&cfg, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(&cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.cfg = cfg
			return writeOut(cmd, app, format.Envelope{Data: cfg})
		},
	})

	return cmd
}

func setConfigValue(cfg *store.Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "api":
		cfg.APIBase = value
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("concurrency: want a non-negative integer, got %q", value)
		}
		cfg.Concurrency = n
	case "name-cache":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("name-cache: %w", err)
		}
		cfg.NameCache = b
	case "timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("timeout: want seconds, got %q", value)
		}
		cfg.TimeoutSeconds = n
	case "tui.glyphs":
		if value != "" && value != "unicode" && value != "ascii" {
			return fmt.Errorf("tui.glyphs: want unicode or ascii, got %q", value)
		}
		tuiConfig(cfg).Glyphs = value
	case "tui.markdown-style":
		tuiConfig(cfg).MarkdownStyle = value
	default:
		return errUnknownConfigKey(key)
	}
	return nil
}

func tuiConfig(cfg *store.Config) *store.TUIConfig {
	if cfg.TUI == nil {
		cfg.TUI = &store.TUIConfig{}
	}
	return cfg.TUI
}
