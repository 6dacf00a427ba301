package queue

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
)

// AlertSender is whatever delivers the new-lead alert (SMTP in production).
type AlertSender interface {
	SendNewLeadAlert(to, userName string, lead NewLeadPayload) error
}

// Worker consumes new-lead notifications and emails the owning user.
// Decoupled from the ingestion paths: a dead mail server never slows a sync.
type Worker struct {
	Channel  *amqp.Channel
	UserRepo entity.UserRepositoryInterface
	Mailer   AlertSender
}

func NewWorker(ch *amqp.Channel, userRepo entity.UserRepositoryInterface, mailer AlertSender) *Worker {
	return &Worker{
		Channel:  ch,
		UserRepo: userRepo,
		Mailer:   mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register rabbitmq consumer")
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NewLeadPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Error().Err(err).Msg("worker: malformed message, rejecting")
				// Malformed. Reject without requeue so it dead-letters.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Error().Err(err).Str("lead_id", payload.LeadID).Msg("worker: notification failed")
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Info().Str("queue", queueName).Msg("notification worker running")
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload NewLeadPayload) error {
	user, err := w.UserRepo.FindByUserID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			// Nobody to notify. Ack and move on.
			log.Warn().Str("user_id", payload.UserID).Msg("worker: user unknown, skipping alert")
			return nil
		}
		return err
	}
	if user.Email == "" {
		return nil
	}

	return w.Mailer.SendNewLeadAlert(user.Email, user.Name, payload)
}
