package commands

import (
	"encoding/json"
	"os"
	"strings"

	"tap-rakuten/internal/streams"
	"tap-rakuten/lib/singer"
	"tap-rakuten/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var discoverConfig *string
var discoverTable *bool

func init() {
	discoverConfig = discoverCmd.Flags().String("config", "config.json5", "The tap configuration file.")
	discoverTable = discoverCmd.Flags().Bool("table", false, "Render the discovered streams as a table instead of catalog JSON.")
	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover [--config <path/to/config.json5>] [--table]",
	Short: "Infers the schema of every configured report and prints the catalog.",
	Run: func(cmd *cobra.Command, args []string) {
		_, streamList, mapper, client := setup(*discoverConfig)

		engine := streams.NewEngine(client, mapper, singer.NewWriter(os.Stdout), nil)
		catalog, err := engine.Discover(cmd.Context(), streamList)
		if err != nil {
			serviceutil.Fatal("failed to discover streams", err)
		}

		if *discoverTable {
			renderCatalog(catalog)
			return
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(catalog)
		if err != nil {
			serviceutil.Fatal("failed to write catalog", err)
		}
	},
}

func renderCatalog(catalog singer.Catalog) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Stream", "Property", "Type", "Format"})

	for _, entry := range catalog.Streams {
		for _, name := range entry.Schema.PropertyNames() {
			prop := entry.Schema.Properties[name]
			t.AppendRow(table.Row{
				entry.TapStreamID,
				name,
				strings.Join(prop.Type, ","),
				prop.Format,
			})
		}
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
