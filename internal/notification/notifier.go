// Package notification delivers trade alerts to external channels.
package notification

import (
	"context"
	"fmt"
	"log"

	"signal-enginev1/internal/model"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "INFO"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

// Alert represents a notification to be sent.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// OrderAlert builds an alert for a submitted order.
func OrderAlert(intent model.TradeIntent, orderID int64) Alert {
	return Alert{
		Level:   AlertInfo,
		Title:   fmt.Sprintf("order %d submitted", orderID),
		Message: intent.String(),
	}
}

// RejectionAlert builds an alert for a gate rejection.
func RejectionAlert(intent model.TradeIntent, reason string) Alert {
	return Alert{
		Level:   AlertWarning,
		Title:   "intent rejected",
		Message: fmt.Sprintf("%s: %s", intent.String(), reason),
	}
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	Send(ctx context.Context, alert Alert) error
}

// LogNotifier logs alerts instead of delivering them. Used in development
// and whenever no webhook is configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] [%s] %s: %s", alert.Level, alert.Title, alert.Message)
	return nil
}
