package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-storefront/internal/auth"
	"github.com/Keoroanthony/go-storefront/internal/cart"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/orders"
)

const (
	msgOrderAccepted = "Order accepted"
	msgOrderRejected = "Some products in your cart are no longer available, the order was not placed"
)

// PlaceOrder turns the session cart into an order and goes back to the cart.
// An empty cart is left alone. POST /orders
func (s *Shop) PlaceOrder(c *gin.Context) {
	const op = "handlers.PlaceOrder"
	ctx := c.Request.Context()

	customer := auth.CurrentCustomer(c)
	log := slog.With("op", op, "customer_id", customer.ID)

	sess := sessions.Default(c)
	current, err := cart.Load(sess)
	if err != nil {
		fail(c, op, err)
		return
	}

	res, err := orders.Place(ctx, db.DB, *customer, current)
	if err != nil {
		var missing *orders.MissingProductsError
		if errors.As(err, &missing) {
			log.Warn("order rejected", "missing_product_ids", missing.IDs)
			addFlash(sess, msgOrderRejected)
			if err := sess.Save(); err != nil {
				fail(c, op, err)
				return
			}
			c.Redirect(http.StatusFound, cartPath)
			return
		}
		fail(c, op, err)
		return
	}

	if res.Order == nil {
		c.Redirect(http.StatusFound, cartPath)
		return
	}

	addFlash(sess, msgOrderAccepted)
	if err := cart.Save(sess, res.Cart); err != nil {
		// the order is committed, only the session write failed
		log.Error("failed to reset cart", "order_id", res.Order.ID, "err", err)
	}

	ev := events.OrderPlaced{Order: *res.Order}
	if customer.User != nil {
		ev.User = *customer.User
	}
	if err := events.Publish(ctx, s.Bus, ev); err != nil {
		log.Error("order placed handlers failed", "order_id", res.Order.ID, "err", err)
	}

	c.Redirect(http.StatusFound, cartPath)
}

// ListOrders shows the customer's order history. GET /orders
func (s *Shop) ListOrders(c *gin.Context) {
	list, err := orders.ForCustomer(c.Request.Context(), db.DB, auth.CurrentCustomer(c).ID)
	if err != nil {
		fail(c, "handlers.ListOrders", err)
		return
	}
	c.HTML(http.StatusOK, "orders.html", page(c, "Orders", gin.H{"Orders": list}))
}
