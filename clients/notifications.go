package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethyne2666/project-management/logging"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationsClient posts user notifications to the notifications
// endpoint. Delivery is best effort: failures trip the circuit breaker and
// are logged, never surfaced to the mutation that triggered them.
type NotificationsClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationsClient(baseURL string) *NotificationsClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "NotificationsCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &NotificationsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
	}
}

func (c *NotificationsClient) Notify(ctx context.Context, userID primitive.ObjectID, message string) {
	if c.baseURL == "" {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"userId":  userID.Hex(),
		"message": message,
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_MARSHAL_FAILED, Description: %v", err)
		return
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("notifications service returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_SEND_FAILED, Description: Failed to notify user %s: %v", userID.Hex(), err)
	}
}
