package notify

import (
	"context"
	"delivery-pricing-service/internal/platform/obs"
	"log"
	"strings"
)

// LogNotifier writes notifications to the process log. Used when no bot token is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, message string) error {
	log.Printf("req_id=%s notify msg=%q", obs.RequestID(ctx), strings.TrimSpace(message))
	return nil
}
