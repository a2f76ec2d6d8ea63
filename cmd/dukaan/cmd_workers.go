package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/dukaan/app/jobs"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
)

// dukaan queue:work: process jobs without running the HTTP server.
// Requires Redis so this process shares the queue with the API.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, disconnect, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer disconnect()

		if err := cache.Connect(ctx); err != nil {
			return fmt.Errorf("queue:work needs redis: %w", err)
		}

		jobs.RegisterAll()
		queue.SetDriver(queue.NewRedisDriver(cache.Client()))
		queue.UseDB(db)

		n, _ := cmd.Flags().GetInt("workers")
		queue.StartWorkers(ctx, n)
		fmt.Printf("Processing jobs with %d workers. Ctrl-C to stop.\n", n)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().Int("workers", 4, "number of concurrent workers")
	rootCmd.AddCommand(queueWorkCmd)
}
