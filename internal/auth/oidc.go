package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

const stateKey = "oidc_state"

var ErrStateMismatch = errors.New("oidc state mismatch")

// Claims are the identity claims read from the ID token.
type Claims struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone_number"`
}

// OIDC signs principals in through an OpenID Connect provider.
type OIDC struct {
	verifier *oidc.IDTokenVerifier
	oauth2   *oauth2.Config
	cookie   sessions.Options
	gdb      *gorm.DB
	bus      *events.Bus
}

func NewOIDC(ctx context.Context, cfg config.OIDCConfig, session config.SessionConfig, gdb *gorm.DB, bus *events.Bus) (*OIDC, error) {
	const op = "auth.NewOIDC"

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("%s: provider init: %w", op, err)
	}

	return &OIDC{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "phone"},
		},
		cookie: CookieOptions(session.MaxAge),
		gdb:    gdb,
		bus:    bus,
	}, nil
}

// Login redirects to the provider. GET /auth/oidc/login
func (o *OIDC) Login(c *gin.Context) {
	state := uuid.NewString()

	sess := sessions.Default(c)
	sess.Set(stateKey, state)
	if err := sess.Save(); err != nil {
		slog.Error("failed to save session", "op", "auth.OIDC.Login", "err", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, o.oauth2.AuthCodeURL(state))
}

// Callback finishes the code flow and logs the principal in.
// GET /auth/oidc/callback
func (o *OIDC) Callback(c *gin.Context) {
	const op = "auth.OIDC.Callback"
	log := slog.With("op", op)

	sess := sessions.Default(c)
	want, _ := sess.Get(stateKey).(string)
	if want == "" || c.Query("state") != want {
		log.Warn("callback rejected", "err", ErrStateMismatch)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code missing"})
		return
	}

	ctx := c.Request.Context()
	token, err := o.oauth2.Exchange(ctx, code)
	if err != nil {
		log.Warn("token exchange failed", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no id_token in token response"})
		return
	}

	idToken, err := o.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		log.Warn("token verification failed", "err", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token verification failed"})
		return
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claims parse error"})
		return
	}

	u, err := UpsertOIDCUser(ctx, o.gdb, o.bus, claims)
	if err != nil {
		log.Error("failed to upsert user", "sub", claims.Sub, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	if err := Login(sess, u, o.cookie); err != nil {
		log.Error("failed to save session", "err", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// UpsertOIDCUser finds the principal for claims.Sub, creating it on first
// sign in. Profile fields are refreshed on later sign ins.
func UpsertOIDCUser(ctx context.Context, gdb *gorm.DB, bus *events.Bus, claims Claims) (models.User, error) {
	const op = "auth.UpsertOIDCUser"

	if claims.Sub == "" {
		return models.User{}, fmt.Errorf("%s: empty subject", op)
	}

	var u models.User
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("oidc_subject = ?", claims.Sub).First(&u).Error
		switch {
		case err == nil:
			u.Name = claims.Name
			u.Phone = claims.Phone
			if claims.Email != "" {
				u.Email = normalizeEmail(claims.Email)
			}
			return SaveUser(ctx, tx, bus, &u)
		case errors.Is(db.NotFound(err), db.ErrNotFound):
			sub := claims.Sub
			u = models.User{
				Username:    "oidc:" + sub,
				Email:       normalizeEmail(claims.Email),
				OIDCSubject: &sub,
				Name:        claims.Name,
				Phone:       claims.Phone,
			}
			return CreateUser(ctx, tx, bus, &u)
		default:
			return err
		}
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
