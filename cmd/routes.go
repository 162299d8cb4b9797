package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/masnyjimmy/rentdocs/catalog"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the operations of an API document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		prefix, _ := cmd.Flags().GetString("prefix")
		tag, _ := cmd.Flags().GetString("tag")
		asJSON, _ := cmd.Flags().GetBool("json")

		doc, err := readDocument(input)
		if err != nil {
			return err
		}

		index := catalog.NewIndex(catalog.Routes(doc))

		var routes []catalog.Route
		switch {
		case prefix != "":
			routes = index.WithPrefix(prefix)
		case tag != "":
			routes = index.WithTag(tag)
		default:
			routes = index.All()
		}

		if prefix != "" && tag != "" {
			routes = filterTag(routes, tag)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(routes)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "METHOD\tPATH\tOPERATION\tAUTH\tSTATUSES")
		for _, r := range routes {
			auth := "bearer"
			if r.Public {
				auth = "public"
			}
			fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\n", r.Method, r.Path, r.OperationID, auth, strings.Join(r.Statuses, ","))
		}
		return tw.Flush()
	},
}

func filterTag(routes []catalog.Route, tag string) []catalog.Route {
	out := routes[:0]
	for _, r := range routes {
		for _, t := range r.Tags {
			if t == tag {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringP("input", "i", "", "API document (default: embedded catalog)")
	routesCmd.Flags().String("prefix", "", "only list paths starting with prefix")
	routesCmd.Flags().String("tag", "", "only list operations with tag")
	routesCmd.Flags().Bool("json", false, "print routes as JSON")
}
