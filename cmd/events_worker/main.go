package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"notesapi/config"
	"notesapi/pkg/helpers"
)

// events_worker drains the activity queue and writes an audit line per event.
// It exists so published events have a consumer in development; a real
// deployment would fan these out to an analytics sink.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-events", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(cfg.RabbitMQEventsQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Infof("events worker consuming from %q", cfg.RabbitMQEventsQueue)
	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				logger.Info("delivery channel closed")
				return
			}
			var ev struct {
				Type   string `json:"type"`
				UserID string `json:"user_id"`
				NoteID string `json:"note_id"`
				At     string `json:"at"`
			}
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				logger.WithError(err).Warn("dropping malformed event")
				_ = d.Nack(false, false)
				continue
			}
			logger.WithFields(map[string]interface{}{
				"type":    ev.Type,
				"user_id": ev.UserID,
				"note_id": ev.NoteID,
				"at":      ev.At,
			}).Info("activity event")
			_ = d.Ack(false)
		case <-quit:
			logger.Info("events worker shutting down")
			return
		}
	}
}
