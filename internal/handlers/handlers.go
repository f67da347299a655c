// Package handlers is the HTTP surface of the storefront.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/auth"
	"github.com/Keoroanthony/go-storefront/internal/cart"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/validation"
)

// Shop serves the customer facing pages.
type Shop struct {
	PageSize int
	Session  config.SessionConfig
	Bus      *events.Bus
	Carts    *cart.Locker
	OIDC     bool
}

// NewShop builds the handlers. A nil bus means the process wide one.
func NewShop(pageSize int, session config.SessionConfig, bus *events.Bus) *Shop {
	if bus == nil {
		bus = events.Default()
	}
	return &Shop{PageSize: pageSize, Session: session, Bus: bus, Carts: cart.NewLocker()}
}

// Routes mounts the pages, the account flows and the admin API on r.
func (s *Shop) Routes(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.GET("/", s.Home)
	r.GET("/products", s.ListProducts)
	r.GET("/products/:section/:category", s.ListProducts)
	r.GET("/products/:section/:category/:product", s.ShowProduct)
	r.POST("/products/:section/:category/:product", s.SubmitReview)

	r.GET(auth.LoginPath, s.LoginForm)
	r.POST(auth.LoginPath, s.Login)
	r.GET("/logout", auth.RequireLogin(), s.Logout)
	r.GET("/signup", s.SignupForm)
	r.POST("/signup", s.Signup)

	// the lock goes first: RequireCustomer already loads the session
	shop := r.Group("/", SerializeSession(s.Session.Name, s.Carts), auth.RequireCustomer())
	{
		shop.POST("/cart", s.AddToCart)
		shop.GET("/cart", s.ShowCart)
		shop.POST("/orders", s.PlaceOrder)
		shop.GET("/orders", s.ListOrders)
	}

	admin := r.Group("/admin", auth.RequireStaff())
	{
		admin.POST("/sections", CreateSection)
		admin.POST("/categories", CreateCategory)
		admin.POST("/products", CreateProduct)
		admin.DELETE("/sections/:id", DeleteSection)
		admin.DELETE("/categories/:id", DeleteCategory)
		admin.DELETE("/products/:id", DeleteProduct)
	}
}

// page fills the data every template expects.
func page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	_, loggedIn := auth.SessionUserID(sessions.Default(c))
	data["Title"] = title
	data["LoggedIn"] = loggedIn
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = validation.Errors{}
	}
	return data
}

func notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", page(c, "Not found", gin.H{
		"Message": "The page you are looking for does not exist.",
	}))
}

// fail renders not found for lookups that missed and a 500 for anything else.
func fail(c *gin.Context, op string, err error) {
	if errors.Is(err, db.ErrNotFound) {
		notFound(c)
		return
	}
	slog.Error("request failed", "op", op, "err", err)
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "error.html", page(c, "Server error", gin.H{
		"Message": "Something went wrong, please try again later.",
	}))
}

const flashKey = "flash"

func addFlash(s sessions.Session, msg string) {
	s.AddFlash(msg, flashKey)
}

// takeFlashes pops the pending messages. The session must be saved afterwards.
func takeFlashes(s sessions.Session) []string {
	raw := s.Flashes(flashKey)
	msgs := make([]string, 0, len(raw))
	for _, m := range raw {
		if str, ok := m.(string); ok {
			msgs = append(msgs, str)
		}
	}
	return msgs
}
