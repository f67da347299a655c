package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/events"
)

var ErrNoPhone = errors.New("customer has no phone number")

// smsResponse is the Africa's Talking messaging reply.
type smsResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Cost       string `json:"cost"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

type SMS struct {
	cfg    config.AfricaTalkingConfig
	client *http.Client
}

func NewSMS(cfg config.AfricaTalkingConfig, client *http.Client) *SMS {
	if client == nil {
		client = http.DefaultClient
	}
	return &SMS{cfg: cfg, client: client}
}

func (s *SMS) NotifyOrderPlaced(ctx context.Context, ev events.OrderPlaced) error {
	const op = "notifier.SMS.NotifyOrderPlaced"

	if ev.User.Phone == "" {
		return fmt.Errorf("%s: %w", op, ErrNoPhone)
	}

	message := fmt.Sprintf(
		"Your order #%d has been successfully placed! Items: %d. Thank you for shopping with us!",
		ev.Order.ID, ev.Order.Quantity(),
	)

	data := url.Values{}
	data.Set("username", s.cfg.Username)
	data.Set("to", ev.User.Phone)
	data.Set("message", message)
	data.Set("from", s.cfg.SenderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.SMSURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("%s: failed to create SMS request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: SMS send failed: %w", op, err)
	}
	defer resp.Body.Close()

	var smsResp smsResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&smsResp)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		if decodeErr == nil {
			return fmt.Errorf("%s: SMS API returned status %d: %s", op, resp.StatusCode, smsResp.SMSMessageData.Message)
		}
		return fmt.Errorf("%s: SMS API returned status %d", op, resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("%s: failed to decode SMS response: %w", op, decodeErr)
	}

	slog.Info("order confirmation sms sent",
		"op", op,
		"order_id", ev.Order.ID,
		"to", ev.User.Phone,
		"message", smsResp.SMSMessageData.Message,
	)
	return nil
}
