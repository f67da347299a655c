// Package notifier tells customers their order went through.
package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"

	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, ev events.OrderPlaced) error
}

// Subscribe sends every placed order to each notifier. Notifiers run in
// their own goroutines, detached from the request, and failures are only
// logged. The returned wait function blocks until in flight notifications
// are done, for use on shutdown.
func Subscribe(bus *events.Bus, log *slog.Logger, ns ...Notifier) (wait func()) {
	var wg sync.WaitGroup

	events.Subscribe(bus, func(ctx context.Context, ev events.OrderPlaced) error {
		ctx = context.WithoutCancel(ctx)
		for _, n := range ns {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := n.NotifyOrderPlaced(ctx, ev); err != nil {
					log.Error("order notification failed",
						"notifier", fmt.Sprintf("%T", n),
						"order_id", ev.Order.ID,
						"err", err,
					)
				}
			}()
		}
		return nil
	})

	return wg.Wait
}

func subject(ev events.OrderPlaced) string {
	return fmt.Sprintf("Order #%d Confirmation - Thank You for Your Purchase!", ev.Order.ID)
}

func greetingName(ev events.OrderPlaced) string {
	if ev.User.Name != "" {
		return ev.User.Name
	}
	return ev.User.Username
}

func lineName(productID uint, p *models.Product) string {
	if p != nil && p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("product %d", productID)
}

func escape(s string) string {
	return html.EscapeString(s)
}
