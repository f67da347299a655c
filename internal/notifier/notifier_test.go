package notifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/models"
	"github.com/Keoroanthony/go-storefront/internal/notifier"
)

func placed() events.OrderPlaced {
	return events.OrderPlaced{
		Order: models.Order{
			ID: 42,
			Lines: []models.OrderLine{
				{ProductID: 1, Quantity: 2, Product: &models.Product{Name: "Ultrabook"}},
				{ProductID: 3, Quantity: 1},
			},
		},
		User: models.User{Username: "ada@example.com", Email: "ada@example.com", Name: "Ada", Phone: "+254700000000"},
	}
}

func TestSMS(t *testing.T) {
	var got url.Values
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		apiKey = r.Header.Get("apikey")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"SMSMessageData":{"Message":"Sent to 1/1","Recipients":[]}}`)
	}))
	defer srv.Close()

	sms := notifier.NewSMS(config.AfricaTalkingConfig{
		Username: "sandbox", APIKey: "k", SMSURL: srv.URL, SenderID: "SHOP",
	}, srv.Client())

	require.NoError(t, sms.NotifyOrderPlaced(context.Background(), placed()))
	assert.Equal(t, "k", apiKey)
	assert.Equal(t, "+254700000000", got.Get("to"))
	assert.Equal(t, "SHOP", got.Get("from"))
	assert.Contains(t, got.Get("message"), "#42")
	assert.Contains(t, got.Get("message"), "Items: 3")
}

func TestSMSErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"SMSMessageData":{"Message":"bad key"}}`)
	}))
	defer srv.Close()

	sms := notifier.NewSMS(config.AfricaTalkingConfig{SMSURL: srv.URL}, srv.Client())

	err := sms.NotifyOrderPlaced(context.Background(), placed())
	assert.ErrorContains(t, err, "bad key")

	ev := placed()
	ev.User.Phone = ""
	assert.ErrorIs(t, sms.NotifyOrderPlaced(context.Background(), ev), notifier.ErrNoPhone)
}

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	return &ses.SendEmailOutput{}, f.err
}

func TestEmail(t *testing.T) {
	client := &fakeSES{}
	email := notifier.NewEmailWithClient(client, "shop@example.com")

	require.NoError(t, email.NotifyOrderPlaced(context.Background(), placed()))
	require.NotNil(t, client.in)
	assert.Equal(t, "shop@example.com", *client.in.Source)
	assert.Equal(t, []string{"ada@example.com"}, client.in.Destination.ToAddresses)
	assert.Contains(t, *client.in.Message.Subject.Data, "#42")
	assert.Contains(t, *client.in.Message.Body.Text.Data, "Ultrabook x 2")
	assert.Contains(t, *client.in.Message.Body.Text.Data, "product 3 x 1")

	ev := placed()
	ev.User.Email = ""
	assert.ErrorIs(t, email.NotifyOrderPlaced(context.Background(), ev), notifier.ErrNoRecipient)

	client.err = errors.New("throttled")
	assert.ErrorContains(t, email.NotifyOrderPlaced(context.Background(), placed()), "throttled")
}

func TestNewEmailRequiresSender(t *testing.T) {
	_, err := notifier.NewEmail(context.Background(), config.EmailConfig{AWSRegion: "us-east-1"})
	assert.ErrorIs(t, err, notifier.ErrNoSender)
}

type recorder struct {
	mu  sync.Mutex
	ids []uint
	err error
}

func (r *recorder) NotifyOrderPlaced(_ context.Context, ev events.OrderPlaced) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, ev.Order.ID)
	return r.err
}

func TestSubscribe(t *testing.T) {
	bus := events.NewBus()
	ok := &recorder{}
	failing := &recorder{err: errors.New("gateway down")}
	wait := notifier.Subscribe(bus, slog.New(slog.NewTextHandler(io.Discard, nil)), ok, failing)

	ctx, cancel := context.WithCancel(context.Background())
	err := events.Publish(ctx, bus, placed())
	cancel()
	wait()

	assert.NoError(t, err, "notification failures must not reach the publisher")
	assert.Equal(t, []uint{42}, ok.ids)
	assert.Equal(t, []uint{42}, failing.ids)
}
