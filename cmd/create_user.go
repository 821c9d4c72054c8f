package cmd

import (
	"context"
	"os"

	"github.com/AgroXSat/groundstation-services/api/services"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	newUsername string
	newRoles    []string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account that can sign in to the ground station",
	Long:  `Creates a user with the given roles. The password is read from the GS_PASSWORD environment variable.`,
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer stationDB.Close()

		password := os.Getenv("GS_PASSWORD")
		if password == "" {
			log.Fatal().Msg("GS_PASSWORD environment variable is not set")
		}

		service := &services.Service{Config: appCfg, DB: stationDB}

		user, err := service.CreateUser(context.Background(), newUsername, password, newRoles)
		if err != nil {
			log.Fatal().Err(err).Str("username", newUsername).Msg("Failed to create user")
		}

		log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Strs("roles", user.Roles).Msg("User created")
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "username of the new account")
	createUserCmd.Flags().StringSliceVar(&newRoles, "role", []string{models.RoleOperator}, "roles granted to the account")
	_ = createUserCmd.MarkFlagRequired("username")
}
