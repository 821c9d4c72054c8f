package cmd

import (
	"context"

	"github.com/AgroXSat/groundstation-services/api/services"
	"github.com/AgroXSat/groundstation-services/db"
	"github.com/AgroXSat/groundstation-services/internal/alerts"
	"github.com/AgroXSat/groundstation-services/internal/appconfig"
	"github.com/AgroXSat/groundstation-services/internal/authn"
	awsclient "github.com/AgroXSat/groundstation-services/internal/aws"
	"github.com/AgroXSat/groundstation-services/internal/cache"
	"github.com/AgroXSat/groundstation-services/internal/storage"
	"github.com/rs/zerolog/log"
)

var (
	appCfg    *appconfig.Config
	stationDB *db.StationDB
)

// commonSetUp loads the config, sets up logging and connects to the database.
func commonSetUp() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogOutput(appCfg.Logging)

	stationDB, err = db.NewStationDB(appCfg.Database.Driver, appCfg.Database.Source, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize StationDB")
	}
}

// newService wires the shared dependencies used by serve and consume.
// The publisher and token issuer are left to the caller; the object store
// and notifier stay unset when not configured.
func newService(ctx context.Context) *services.Service {
	svc := &services.Service{
		Config: appCfg,
		DB:     stationDB,
		Cache:  cache.Noop{},
	}

	// Position and station cache
	if appCfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, appCfg.Redis.Addr, appCfg.Redis.Password, appCfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		svc.Cache = cache.NewRedisCache(client, appCfg.Redis.TTL)
		log.Info().Str("addr", appCfg.Redis.Addr).Msg("Redis cache enabled")
	}

	awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	if appCfg.AWS.S3.Bucket != "" {
		client := awsclient.NewS3Client(awsCfg, appCfg.AWS.S3.RoleArn, appCfg.AWS.S3.Endpoint)
		svc.Objects = storage.NewS3Store(client, appCfg.AWS.S3.Bucket)
	}

	if appCfg.AWS.SES.From != "" && len(appCfg.AWS.SES.To) > 0 {
		svc.Alerts = alerts.NewNotifier(awsclient.NewSESClient(awsCfg), appCfg.AWS.SES.From, appCfg.AWS.SES.To, appCfg.Alerts.Cooldown)
	} else {
		log.Warn().Msg("SES is not configured, telemetry alerts are disabled")
	}

	return svc
}

// newIssuer builds the token issuer, reading the signing secret from
// Secrets Manager when a secret name is configured.
func newIssuer(ctx context.Context) *authn.Issuer {
	secret := appCfg.Auth.Secret
	if appCfg.Auth.SecretName != "" {
		awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load AWS config")
		}
		secret, err = awsclient.GetSecretString(ctx, awsclient.NewSecretsManagerClient(awsCfg), appCfg.Auth.SecretName)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read signing secret")
		}
	}

	issuer, err := authn.NewIssuer(appCfg.Auth.Issuer, secret, appCfg.Auth.AccessTTL, appCfg.Auth.RefreshTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token issuer")
	}
	return issuer
}
