// The mailer consumes notification events and delivers them as mails.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/workforce/internal/workforce/config"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/mail"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := config.Load(config.Path())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal("KAFKA_BROKERS is not set")
	}

	mailer := newMailer(cfg, logger)

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.Topic, logger)
	consumer.RegisterHandler(func(ctx context.Context, n events.Notification) error {
		return mail.Deliver(ctx, mailer, mail.Message{
			To:      n.To,
			Subject: n.Title,
			Body:    n.Body,
		}, mail.DefaultRetryPolicy, logger)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.Start(ctx)
	logger.Info("Mailer started", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.Topic))

	<-ctx.Done()
	<-consumer.Done()
	consumer.Close()
	logger.Info("Mailer stopped properly")
}

func newMailer(cfg *config.Config, logger *zap.Logger) mail.Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST is empty, mails will only be logged")
		return mail.NewLogMailer(logger)
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}
