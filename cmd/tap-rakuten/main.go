package main

import (
	"context"
	"os"

	"tap-rakuten/cmd/tap-rakuten/commands"
	"tap-rakuten/lib/telemetry"
	"tap-rakuten/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "tap-rakuten")
	if err == nil {
		defer tel.Shutdown(context.Background())
	} else if !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	commands.ExecuteContext(ctx)
}
