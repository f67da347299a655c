package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-storefront/internal/auth"
	"github.com/Keoroanthony/go-storefront/internal/cart"
	"github.com/Keoroanthony/go-storefront/internal/db"
)

const cartPath = "/cart"

// AddToCart adds one unit of a product. The product is not looked up here,
// placing the order resolves it.
// POST /cart?product_id=&next=
func (s *Shop) AddToCart(c *gin.Context) {
	const op = "handlers.AddToCart"

	id, err := strconv.ParseUint(c.Query("product_id"), 10, 64)
	if err != nil || id == 0 {
		c.HTML(http.StatusBadRequest, "error.html", page(c, "Bad request", gin.H{
			"Message": "Unknown product.",
		}))
		return
	}

	sess := sessions.Default(c)
	current, err := cart.Load(sess)
	if err != nil {
		fail(c, op, err)
		return
	}
	if err := cart.Save(sess, current.Add(uint(id))); err != nil {
		fail(c, op, err)
		return
	}

	next := auth.SafeNext(c.Query("next"))
	if next == "" {
		next = cartPath
	}
	c.Redirect(http.StatusFound, next)
}

// ShowCart renders the cart together with pending messages. GET /cart
func (s *Shop) ShowCart(c *gin.Context) {
	const op = "handlers.ShowCart"

	sess := sessions.Default(c)
	current, err := cart.Load(sess)
	if err != nil {
		fail(c, op, err)
		return
	}

	lines, err := cart.View(c.Request.Context(), db.DB, current)
	if err != nil {
		fail(c, op, err)
		return
	}

	flashes := takeFlashes(sess)
	if len(flashes) > 0 {
		if err := sess.Save(); err != nil {
			fail(c, op, err)
			return
		}
	}

	c.HTML(http.StatusOK, "cart.html", page(c, "Cart", gin.H{
		"Lines":   lines,
		"Items":   current.Items(),
		"Flashes": flashes,
	}))
}
