package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/folio-dev/folio/pkg/httpclient"
	"github.com/folio-dev/folio/pkg/logger"
	"go.uber.org/zap"
)

// PostJSONAsync posts payload as JSON to webhookURL in the background.
// Failures are logged and never reach the caller. The returned channel is
// closed once the call finishes; callers that don't care can ignore it.
func PostJSONAsync(webhookURL, event string, payload any, httpClient httpclient.Client) <-chan struct{} {
	done := make(chan struct{})
	if webhookURL == "" {
		close(done)
		return done
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to encode webhook payload", zap.Error(err), zap.String("event", event))
		close(done)
		return done
	}

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
		if err != nil {
			logger.Error("Failed to build webhook request", zap.Error(err), zap.String("event", event))
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Folio-Event", event)

		resp, err := httpClient.Do(req)
		if err != nil {
			logger.Error("Failed to call webhook",
				zap.Error(err),
				zap.String("event", event))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.Info("Webhook called successfully",
				zap.String("event", event),
				zap.Int("status_code", resp.StatusCode))
		} else {
			logger.Warn("Webhook returned non-success status",
				zap.String("event", event),
				zap.Int("status_code", resp.StatusCode))
		}
	}()

	return done
}
