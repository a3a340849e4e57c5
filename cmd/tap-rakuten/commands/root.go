package commands

import (
	"context"
	"fmt"
	"os"

	"tap-rakuten/internal/fieldtypes"
	"tap-rakuten/internal/rakuten"
	"tap-rakuten/internal/streams"
	"tap-rakuten/lib/configutil"
	"tap-rakuten/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tap-rakuten",
	Short: "tap-rakuten extracts Rakuten affiliate reports as Singer messages.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the tap config and assembles the pieces every command needs.
// Configuration problems are fatal at startup.
func setup(configPath string) (streams.Config, []streams.Stream, *rakuten.Mapper, *rakuten.Client) {
	cfg, err := configutil.ReadConfig[streams.Config](configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	streamList, err := cfg.Streams()
	if err != nil {
		serviceutil.Fatal("invalid config", err)
	}

	registry, err := fieldtypes.Load()
	if err != nil {
		serviceutil.Fatal("failed to load field type registry", err)
	}

	client := rakuten.NewClient(rakuten.ClientOptions{
		Token:    cfg.Token,
		Region:   cfg.Region,
		DateType: cfg.DefaultDateType,
	})
	return cfg, streamList, rakuten.NewMapper(registry), client
}
