package commands

import (
	"log/slog"
	"os"
	"time"

	"tap-rakuten/internal/statedb"
	"tap-rakuten/internal/streams"
	"tap-rakuten/lib/singer"
	"tap-rakuten/lib/telemetry"
	"tap-rakuten/lib/util/serviceutil"

	"github.com/spf13/cobra"
	"github.com/titanous/json5"
)

var syncConfig *string
var syncCatalog *string
var syncState *string
var syncStateDb *string

func init() {
	syncConfig = syncCmd.Flags().String("config", "config.json5", "The tap configuration file.")
	syncCatalog = syncCmd.Flags().String("catalog", "", "A catalog file produced by discover. When omitted every configured stream is discovered and synced.")
	syncState = syncCmd.Flags().String("state", "", "A state file from a previous run.")
	syncStateDb = syncCmd.Flags().String("state-db", "", "A local sqlite database that mirrors bookmarks, used when no state file is available.")
	rootCmd.AddCommand(syncCmd)
}

func readCatalog(path string) (singer.Catalog, bool) {
	if path == "" {
		return singer.Catalog{}, false
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		serviceutil.Fatal("failed to read catalog", err)
	}
	var catalog singer.Catalog
	err = json5.Unmarshal(contents, &catalog)
	if err != nil {
		serviceutil.Fatal("failed to parse catalog", err)
	}
	return catalog, true
}

func readState(path string) singer.State {
	var state singer.State
	if path == "" {
		return state
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		serviceutil.Fatal("failed to read state", err)
	}
	err = json5.Unmarshal(contents, &state)
	if err != nil {
		serviceutil.Fatal("failed to parse state", err)
	}
	return state
}

var syncCmd = &cobra.Command{
	Use:   "sync [--config <path>] [--catalog <path>] [--state <path>] [--state-db <path>]",
	Short: "Extracts every selected stream day by day, emitting Singer messages on stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		_, streamList, mapper, client := setup(*syncConfig)

		var store *statedb.Store
		if *syncStateDb != "" {
			var err error
			store, err = statedb.Open(*syncStateDb)
			if err != nil {
				serviceutil.Fatal("failed to open state db", err)
			}
			defer store.Close()
		}

		engine := streams.NewEngine(client, mapper, singer.NewWriter(os.Stdout), store)

		catalog, found := readCatalog(*syncCatalog)
		if !found {
			slog.Info("no catalog given, discovering all configured streams")
			var err error
			catalog, err = engine.Discover(ctx, streamList)
			if err != nil {
				serviceutil.Fatal("failed to discover streams", err)
			}
			// without a catalog there is nothing to deselect, sync
			// everything that was configured
			for i := range catalog.Streams {
				catalog.Streams[i].Metadata = singer.WriteMetadata(
					catalog.Streams[i].Metadata, nil, "selected", true,
				)
			}
		}

		state := readState(*syncState)

		t1 := time.Now()
		err := engine.Sync(ctx, catalog, streamList, &state, time.Now().UTC())
		if err != nil {
			serviceutil.Fatal("sync failed", err)
		}
		slog.Info("sync time", "seconds", time.Since(t1).Seconds())
	},
}
