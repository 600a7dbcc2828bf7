package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"tidytuesday-go/lib/configutil"
	"tidytuesday-go/lib/ghapi"
	"tidytuesday-go/lib/mdview"
	"tidytuesday-go/lib/restyutil"
	"tidytuesday-go/lib/telemetry"
	"tidytuesday-go/services/tuesdata"

	"github.com/spf13/cobra"
)

// Config overrides the GitHub endpoints, mostly useful for pointing
// the CLI at a mirror or a local fixture server.
type Config struct {
	ApiBaseUrl string `json:"api_base_url"`
	RawBaseUrl string `json:"raw_base_url"`
	Repo       string `json:"repo"`
	Branch     string `json:"branch"`
}

var verbose *bool

var service tuesdata.Service
var tel telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:   "tidytues-cli",
	Short: "tidytues-cli lists and downloads the weekly TidyTuesday datasets.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initTelemetry(cmd.Context())
		initService()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := tel.Shutdown(cmd.Context())
		if err != nil {
			slog.Warn("failed to shut down telemetry", "err", err)
		}
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging/instrumentation.")
}

func initTelemetry(ctx context.Context) {
	telemetry.InitSlog(*verbose)

	if *verbose {
		ghapi.SetRestyInstrumentOutput(
			restyutil.NewFilesystemOutput(".dev/resty/ghapi"),
		)
	}

	t, err := telemetry.SetupFromEnv(ctx, "tidytues-cli")
	if os.IsNotExist(err) {
		// no telemetry.json5 up the tree, run without exporters
		return
	}
	if err != nil {
		fatal("failed to setup telemetry", err)
	}
	tel = t
	telemetry.InstrumentPerfStats(ctx)
}

func initService() {
	cfg, err := configutil.ReadConfig[Config]("tidytues.json5")
	if err != nil && !os.IsNotExist(err) {
		fatal("failed to read config", err)
	}

	client := ghapi.NewClient(ghapi.ClientOptions{
		ApiBaseUrl: cfg.ApiBaseUrl,
		RawBaseUrl: cfg.RawBaseUrl,
		Repo:       cfg.Repo,
		Branch:     cfg.Branch,
	})
	service = tuesdata.NewService(client, mdview.BrowserViewer{})
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
