package cmd

import (
	"context"
	"time"

	"github.com/AgroXSat/groundstation-services/api/services"
	"github.com/AgroXSat/groundstation-services/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var resendOlderThan time.Duration

var resendCmd = &cobra.Command{
	Use:   "resend",
	Short: "Republish commands the satellite has not acknowledged yet",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer stationDB.Close()

		// Initialize command publisher
		publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicCommands)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event publisher")
		}
		defer publisher.Close()

		service := &services.Service{
			Config:    appCfg,
			DB:        stationDB,
			Publisher: publisher,
		}

		log.Info().Msg("Starting resend of pending commands...")

		ctx := log.Logger.WithContext(context.Background())
		sent, err := service.ResendPendingCommands(ctx, time.Now().Add(-resendOlderThan))
		if err != nil {
			log.Fatal().Err(err).Msg("Error fetching pending commands")
		}

		log.Info().Int("sent", sent).Msg("Command resend completed.")
	},
}

func init() {
	rootCmd.AddCommand(resendCmd)
	resendCmd.Flags().DurationVar(&resendOlderThan, "older-than", 2*time.Minute,
		"only resend commands issued at least this long ago")
}
