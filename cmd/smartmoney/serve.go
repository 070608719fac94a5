package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aristath/smartmoney/internal/registry"
	"github.com/aristath/smartmoney/internal/scheduler"
)

// serveCmd runs the pipeline continuously under the scheduler: a full
// collector-to-ranking pass on the configured cron schedule, plus a
// fixed 60s columnar re-projection loop independent of it.
func serveCmd(reg *registry.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler continuously",
		RunE: func(cmd *cobra.Command, args []string) error {
			sched := scheduler.New(reg.Log)

			if err := sched.AddJob(reg.Config.RefreshCron, &registry.PipelineJob{Pipeline: reg.Pipeline}); err != nil {
				return err
			}
			if err := sched.AddJob("@every 60s", &registry.ColumnarJob{Columnar: reg.Columnar}); err != nil {
				return err
			}

			sched.Start()
			defer sched.Stop()

			reg.Log.Info().Str("cron", reg.Config.RefreshCron).Msg("smartmoney serving")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			reg.Log.Info().Msg("shutting down")
			return nil
		},
	}
}
