// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/config"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envfmt"
)

// newConfigCommand creates the `cloudtruth config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect CLI configuration",
		Long: `Inspect CLI configuration.

Profiles are read from:
  - Linux: ~/.config/cloudtruth/cli.yml
  - macOS: ~/Library/Application Support/cloudtruth/cli.yml
  - Windows: %APPDATA%\cloudtruth\cli.yml

Environment variables (` + config.EnvPrefix + `_*) override the profile and
flags override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Config.Load(cmd.Context(), app.loadOptions())
			if err != nil {
				return configFailure(err)
			}
			if format == "" {
				renderSettings(app.stdout, settings)
				return nil
			}
			f, err := envfmt.ParseFormat(format)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}
			return envfmt.Write(app.stdout, f, settings.Values())
		},
	}
	show.Flags().StringVar(&format, "format", "", "output format: "+joinNames(envfmt.Formats())+" (default styled text)")
	_ = show.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(completionNames(envfmt.Formats()), cobra.ShellCompDirectiveNoFileComp))
	cfgCmd.AddCommand(show)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the profile file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, exists, err := app.Config.Path(app.loadOptions())
			if err != nil {
				return configFailure(err)
			}
			fmt.Fprintln(app.stdout, path)
			if !exists {
				fmt.Fprintln(app.stderr, SubtitleStyle.Render("(file does not exist; defaults are used)"))
			}
			return nil
		},
	})

	return cfgCmd
}

func renderSettings(w io.Writer, s *config.Settings) {
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if s.ConfigFile != "" {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Config file"), s.ConfigFile)
	} else {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	values := s.Values()
	delete(values, "config_file")
	keys := make([]string, 0, len(values))
	width := 0
	for k := range values {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := values[k]
		if v == "" {
			v = SubtitleStyle.Render("(not set)")
		} else {
			v = SuccessStyle.Render(v)
		}
		fmt.Fprintf(w, "%s%s %s\n", CmdStyle.Render(k+":"), strings.Repeat(" ", width-len(k)), v)
	}
}
