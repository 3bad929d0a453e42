// Package logger provides structured logging for ingestion and sweep
// events. Message bodies are never logged.
package logger

import (
	"log/slog"
	"os"
)

// IngestLogger records the outcome of inbound-message processing. Discards
// are silent on the wire, so these log entries are the only observable
// trace of a rejected delivery.
type IngestLogger struct {
	logger *slog.Logger
}

// NewIngestLogger creates an IngestLogger with JSON output.
func NewIngestLogger() *IngestLogger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &IngestLogger{
		logger: slog.New(handler),
	}
}

// NewIngestLoggerWithHandler creates an IngestLogger with a custom handler.
func NewIngestLoggerWithHandler(handler slog.Handler) *IngestLogger {
	return &IngestLogger{
		logger: slog.New(handler),
	}
}

// MessageAccepted logs a stored inbound message.
func (l *IngestLogger) MessageAccepted(inboxID, messageID, from string) {
	l.logger.Info("message_accepted",
		slog.String("event_type", "accepted"),
		slog.String("inbox_id", inboxID),
		slog.String("message_id", messageID),
		slog.String("from", from),
	)
}

// MessageDeduplicated logs an inbound message dropped as a duplicate
// delivery of an already stored message.
func (l *IngestLogger) MessageDeduplicated(inboxID, dedupKey string) {
	l.logger.Info("message_deduplicated",
		slog.String("event_type", "deduplicated"),
		slog.String("inbox_id", inboxID),
		slog.String("dedup_key", dedupKey),
	)
}

// MessageRejected logs a silently discarded inbound message. The recipient
// is logged; sender and content are not.
func (l *IngestLogger) MessageRejected(rcptTo, reason string) {
	l.logger.Info("message_rejected",
		slog.String("event_type", "rejected"),
		slog.String("rcpt_to", rcptTo),
		slog.String("reason", reason),
	)
}

// StoreFailure logs a persistence error during ingestion. No retry is
// scheduled; redelivery is the sender's concern.
func (l *IngestLogger) StoreFailure(rcptTo string, err error) {
	l.logger.Error("message_store_failure",
		slog.String("event_type", "store_failure"),
		slog.String("rcpt_to", rcptTo),
		slog.Any("error", err),
	)
}

// SweepCompleted logs the result of an expiry sweep that deleted rows.
func (l *IngestLogger) SweepCompleted(inboxes, messages int64) {
	l.logger.Info("sweep_completed",
		slog.String("event_type", "sweep"),
		slog.Int64("inboxes_deleted", inboxes),
		slog.Int64("messages_deleted", messages),
	)
}
