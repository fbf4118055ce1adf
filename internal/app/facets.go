package app

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/spf13/cobra"
)

func newFacetsCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "List the filter values present in the catalog",
		Long: `List the branches, statuses, languages, material types, subjects and
year span that the search filters (--lib, --status, --lang, --format,
--topic, --year-min, --year-max) accept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := loadBooks(cmd.Context())
			if err != nil {
				return err
			}
			f := catalog.CollectFacets(books)
			if jsonOut {
				return printJSON(f)
			}

			statuses := make([]string, len(f.Statuses))
			for i, s := range f.Statuses {
				statuses[i] = string(s)
			}
			header("── Catalog facets (%d books)", len(books))
			printField("libraries", strings.Join(f.Libraries, ", "))
			printField("statuses", strings.Join(statuses, ", "))
			printField("languages", strings.Join(f.Languages, ", "))
			printField("formats", strings.Join(f.Formats, ", "))
			printField("subjects", strings.Join(f.Subjects, ", "))
			printField("years", fmt.Sprintf("%d–%d", f.MinYear, f.MaxYear))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
