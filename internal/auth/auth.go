package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-storefront/internal/cart"
	"github.com/Keoroanthony/go-storefront/internal/customers"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

const (
	userIDKey   = "user_id"
	customerKey = "customer"
	userKey     = "user"

	LoginPath = "/login"
)

// Login binds a fresh session to u and starts it with an empty cart. The
// session the client came with is dropped first so its id cannot be reused
// by whoever planted it; opts are the cookie options of the new one.
func Login(s sessions.Session, u models.User, opts sessions.Options) error {
	s.Clear()
	expired := opts
	expired.MaxAge = -1
	s.Options(expired)
	if err := s.Save(); err != nil {
		return err
	}

	s.Options(opts)
	s.Set(userIDKey, u.ID)
	if err := cart.Store(s, cart.Cart{}); err != nil {
		return err
	}
	return s.Save()
}

// Logout drops the cart and the identity from the session.
func Logout(s sessions.Session) error {
	cart.Clear(s)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// SessionUserID returns the principal bound to the session, if any.
func SessionUserID(s sessions.Session) (uint, bool) {
	id, ok := s.Get(userIDKey).(uint)
	return id, ok && id != 0
}

// LoginRedirect sends the client to the login page, remembering where it
// wanted to go.
func LoginRedirect(c *gin.Context) {
	target := LoginPath + "?next=" + url.QueryEscape(nextTarget(c))
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// nextTarget is where to come back after logging in. Form posts come back to
// the page they were sent from rather than to the action.
func nextTarget(c *gin.Context) string {
	if c.Request.Method == http.MethodGet {
		return c.Request.URL.RequestURI()
	}
	if next := SafeNext(c.Query("next")); next != "" {
		return next
	}
	return "/"
}

// SafeNext accepts only local absolute paths so redirects cannot leave the site.
func SafeNext(next string) string {
	if next == "" || next[0] != '/' || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" {
		return ""
	}
	return next
}

// RequireLogin lets through any session bound to an existing principal.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		userID, ok := SessionUserID(sess)
		if !ok {
			LoginRedirect(c)
			return
		}

		var u models.User
		if err := db.DB.WithContext(c.Request.Context()).First(&u, userID).Error; err != nil {
			LoginRedirect(c)
			return
		}
		c.Set(userKey, &u)
		c.Next()
	}
}

// RequireCustomer ensures the session belongs to a principal with a Customer
// and injects *models.Customer into the context. Anyone else is sent to the
// login page.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		userID, ok := SessionUserID(sess)
		if !ok {
			LoginRedirect(c)
			return
		}

		cust, err := customers.ForUser(c.Request.Context(), db.DB, userID)
		if err != nil {
			if !errors.Is(err, customers.ErrNotCustomer) {
				slog.Error("failed to resolve customer", "op", "auth.RequireCustomer", "user_id", userID, "err", err)
			}
			LoginRedirect(c)
			return
		}

		// put on context for handlers
		c.Set(customerKey, &cust)
		c.Set(userKey, cust.User)
		c.Next()
	}
}

// RequireStaff guards the admin API.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		userID, ok := SessionUserID(sess)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var u models.User
		if err := db.DB.WithContext(c.Request.Context()).First(&u, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !u.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Set(userKey, &u)
		c.Next()
	}
}

// CurrentCustomer returns the customer injected by RequireCustomer.
func CurrentCustomer(c *gin.Context) *models.Customer {
	cust, _ := c.MustGet(customerKey).(*models.Customer)
	return cust
}

// CurrentUser returns the principal injected by one of the middlewares.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
