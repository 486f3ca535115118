// Command worker consumes the notification queue and mails the admins.
package main

import (
	"context"

	"vo-directory/config"
	"vo-directory/internal/infra/email"
	"vo-directory/internal/infra/queue"
	"vo-directory/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadBaseEnv()
	logger.Init(config.APP_ENV)

	if config.REDIS_ADDR == "" {
		log.Fatal().Msg("REDIS_ADDR is required by the worker")
	}

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     config.SMTP_HOST,
		Port:     config.SMTP_PORT,
		From:     config.SMTP_FROM,
		Password: config.SMTP_PASSWORD,
	})

	mux := asynq.NewServeMux()
	queue.Register(mux, queue.NewArtistSubmittedHandler(sender, config.ADMIN_EMAIL, config.APP_BASE_URL))

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.REDIS_ADDR,
			Password: config.REDIS_PASSWORD,
			DB:       config.REDIS_DB,
		},
		asynq.Config{
			Concurrency: 5,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).Msg("task failed")
			}),
		},
	)

	log.Info().Str("admin_email", config.ADMIN_EMAIL).Msg("worker starting")
	// Run blocks until SIGINT or SIGTERM
	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("worker stopped")
	}
}
