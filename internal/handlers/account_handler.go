package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-storefront/internal/auth"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/validation"
)

// LoginForm renders the login page. GET /login?next=
func (s *Shop) LoginForm(c *gin.Context) {
	s.renderLogin(c, http.StatusOK, auth.LoginInput{}, nil)
}

// Login checks the credentials, starts a session with an empty cart and
// redirects to next.
// POST /login?next=
func (s *Shop) Login(c *gin.Context) {
	const op = "handlers.Login"

	var in auth.LoginInput
	_ = c.ShouldBind(&in)

	u, err := auth.Authenticate(c.Request.Context(), db.DB, in)
	if err != nil {
		if ve, ok := validation.As(err); ok {
			in.Password = ""
			s.renderLogin(c, http.StatusBadRequest, in, ve)
			return
		}
		fail(c, op, err)
		return
	}

	if err := auth.Login(sessions.Default(c), u, auth.CookieOptions(s.Session.MaxAge)); err != nil {
		fail(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, loginNext(c))
}

// loginNext prefers the query string over the hidden form field.
func loginNext(c *gin.Context) string {
	if next := auth.SafeNext(c.Query("next")); next != "" {
		return next
	}
	if next := auth.SafeNext(c.PostForm("next")); next != "" {
		return next
	}
	return "/"
}

func (s *Shop) renderLogin(c *gin.Context, status int, in auth.LoginInput, ve validation.Errors) {
	if ve == nil {
		ve = validation.Errors{}
	}
	c.HTML(status, "login.html", page(c, "Log in", gin.H{
		"Form":   in,
		"Errors": ve,
		"Next":   auth.SafeNext(c.Query("next")),
		"OIDC":   s.OIDC,
	}))
}

// Logout ends the session. GET /logout
func (s *Shop) Logout(c *gin.Context) {
	if err := auth.Logout(sessions.Default(c)); err != nil {
		fail(c, "handlers.Logout", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// SignupForm renders the signup page. GET /signup
func (s *Shop) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", page(c, "Sign up", gin.H{"Form": auth.SignupInput{}}))
}

// Signup registers a shopper and sends them to the login page.
// POST /signup
func (s *Shop) Signup(c *gin.Context) {
	const op = "handlers.Signup"

	var in auth.SignupInput
	_ = c.ShouldBind(&in)

	if _, err := auth.Register(c.Request.Context(), db.DB, s.Bus, in); err != nil {
		var ve validation.Errors
		if errors.As(err, &ve) {
			in.Password1, in.Password2 = "", ""
			c.HTML(http.StatusBadRequest, "signup.html", page(c, "Sign up", gin.H{
				"Form":   in,
				"Errors": ve,
			}))
			return
		}
		fail(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, auth.LoginPath)
}
