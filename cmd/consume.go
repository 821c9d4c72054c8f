package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AgroXSat/groundstation-services/internal/downlink"
	"github.com/AgroXSat/groundstation-services/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the Pulsar consumer to record frames from the downlink topic",
	Run: func(cmd *cobra.Command, args []string) {

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer stationDB.Close()

		service := newService(ctx)

		// Initialize event consumer
		consumer, err := events.NewDownlinkConsumer(appCfg.Pulsar)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		log.Info().Str("topic", appCfg.Pulsar.TopicDownlink).Msg("Waiting for downlink frames")

		if err := downlink.NewDispatcher(service).Run(log.Logger.WithContext(ctx), consumer); err != nil {
			log.Error().Err(err).Msg("Downlink consumer stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
