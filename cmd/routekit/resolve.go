package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/vango-dev/routekit/internal/app"
)

func resolveCmd(configDir *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <location>",
		Short: "Resolve a location against the route table",
		Long: `Resolve a location the way the server does for a deep link.

Examples:
  routekit resolve /
  routekit resolve "/login?next=/"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, discard)
			if err != nil {
				return err
			}
			r := a.Router()

			loc, err := r.Resolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"name":     loc.Name,
					"path":     loc.Path,
					"fullPath": loc.FullPath,
					"href":     r.Href(loc),
					"params":   loc.Params,
					"props":    loc.Props(),
				})
			}

			success(out, "%s matched %s", loc.FullPath, loc.Name)
			info(out, "Pattern: %s", loc.Route.Path)
			info(out, "Href:    %s", r.Href(loc))
			if props := loc.Props(); props != nil {
				keys := make([]string, 0, len(props))
				for k := range props {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					info(out, "Prop:    %s=%s", k, props[k])
				}
			} else if !loc.Route.Props {
				info(out, "Props:   not forwarded")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			fmt.Fprintf(out, "routekit %s (commit %s, built %s)\n", version, commit, date)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}
