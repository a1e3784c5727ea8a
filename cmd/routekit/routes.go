package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/routekit/internal/app"
	"github.com/vango-dev/routekit/pkg/router"
)

type routeInfo struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Href    string   `json:"href"`
	Props   bool     `json:"props"`
	Params  []string `json:"params,omitempty"`
	History string   `json:"history"`
}

func routesCmd(configDir *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List the route table in match order.

When patterns overlap the first route in this list wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, discard)
			if err != nil {
				return err
			}
			infos := describeRoutes(a.Router())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tPATH\tHREF\tPROPS")
			for _, ri := range infos {
				props := "-"
				if ri.Props {
					props = "yes"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", ri.Index, ri.Name, ri.Path, ri.Href, props)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func describeRoutes(r *router.Router) []routeInfo {
	routes := r.Routes()
	infos := make([]routeInfo, 0, len(routes))
	for i, rt := range routes {
		ri := routeInfo{
			Index:   i,
			Name:    rt.Name,
			Path:    rt.Path,
			Props:   rt.Props,
			History: string(r.History().Mode()),
		}
		for _, p := range router.PatternParams(rt.Path) {
			ri.Params = append(ri.Params, p.Name)
		}
		if href, err := r.Link(rt.Name, nil, nil); err == nil {
			ri.Href = href
		} else {
			ri.Href = "-"
		}
		infos = append(infos, ri)
	}
	return infos
}
