package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"gorm.io/gorm"

	config "github.com/Keoroanthony/go-storefront/configs"
)

const (
	StoreCookie = "cookie"
	StoreGorm   = "gorm"
)

// CookieOptions are the attributes every session cookie is written with.
func CookieOptions(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewSessionStore builds the configured session backend. The gorm store keeps
// the values server side so that requests serialized per session see each
// other's writes; the cookie store only carries what the browser sent.
func NewSessionStore(cfg config.SessionConfig, gdb *gorm.DB, cleanup bool) sessions.Store {
	var store sessions.Store
	switch cfg.Store {
	case StoreCookie:
		store = cookie.NewStore([]byte(cfg.Secret))
	default:
		store = gormsessions.NewStore(gdb, cleanup, []byte(cfg.Secret))
	}
	store.Options(CookieOptions(cfg.MaxAge))
	return store
}
