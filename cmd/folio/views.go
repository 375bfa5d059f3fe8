package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dvh-sh/folio"
	"github.com/dvh-sh/folio/listing"
)

var viewsCmd = &cobra.Command{
	Use:       "views <blog|cooking>",
	Short:     "Print view counts for a collection, most viewed first",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(listing.Blog), string(listing.Cooking)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := listing.Kind(args[0])
		if !kind.Valid() {
			return fmt.Errorf("unknown collection %q", args[0])
		}
		store, err := folio.OpenViewStore(cmd.Context(), siteConfig)
		if err != nil {
			return err
		}
		defer store.Close()

		counts, err := store.Counts(cmd.Context(), kind)
		if err != nil {
			return err
		}
		slugs := make([]string, 0, len(counts))
		for s := range counts {
			slugs = append(slugs, s)
		}
		sort.Slice(slugs, func(i, j int) bool {
			if counts[slugs[i]] != counts[slugs[j]] {
				return counts[slugs[i]] > counts[slugs[j]]
			}
			return slugs[i] < slugs[j]
		})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tVIEWS")
		for _, s := range slugs {
			fmt.Fprintf(w, "%s\t%d\n", s, counts[s])
		}
		return w.Flush()
	},
}
