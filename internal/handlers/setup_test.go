package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/auth"
	"github.com/Keoroanthony/go-storefront/internal/customers"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/db/dbtest"
	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/handlers"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

const testPassword = "correct-horse"

type testEnv struct {
	router *gin.Engine
	shop   *handlers.Shop
	db     *gorm.DB
	bus    *events.Bus
	cat    dbtest.Catalog

	mu     sync.Mutex
	placed []events.OrderPlaced
}

func testSessionConfig(store string) config.SessionConfig {
	return config.SessionConfig{Name: "gosess", Secret: "test-secret-key", Store: store, MaxAge: 3600}
}

// setupTestRouter serves the shop with the default server side session store.
func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	return setupTestRouterWithStore(t, auth.StoreGorm)
}

func setupTestRouterWithStore(t *testing.T, store string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB := dbtest.Open(t)
	originalDB := db.DB
	db.SetTestDB(testDB)
	t.Cleanup(func() {
		db.SetTestDB(originalDB)
	})

	env := &testEnv{db: testDB, bus: events.NewBus(), cat: dbtest.SeedCatalog(t, testDB)}
	customers.Register(env.bus)
	events.Subscribe(env.bus, func(_ context.Context, ev events.OrderPlaced) error {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.placed = append(env.placed, ev)
		return nil
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(handlers.Templates())
	sessCfg := testSessionConfig(store)
	r.Use(sessions.Sessions(sessCfg.Name, auth.NewSessionStore(sessCfg, testDB, false)))
	env.shop = handlers.NewShop(2, sessCfg, env.bus)
	env.shop.Routes(r)
	env.router = r

	return env
}

// register signs a shopper up through the real flow.
func (e *testEnv) register(t *testing.T, email string) models.User {
	t.Helper()
	u, err := auth.Register(context.Background(), e.db, e.bus, auth.SignupInput{
		Email: email, Password1: testPassword, Password2: testPassword,
	})
	require.NoError(t, err)
	return u
}

// client carries the session cookie from one request to the next, like a
// browser would.
type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, router: e.router, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	w := c.send(req)
	c.keep(w)
	return w
}

// send replays the current cookies without taking the response ones back, the
// way a browser fires requests that overlap.
func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *client) keep(w *httptest.ResponseRecorder) {
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
}

func (c *client) cookie(name string) *http.Cookie {
	return c.cookies[name]
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) json(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) login(email string) {
	c.t.Helper()
	w := c.post("/login", url.Values{"email": {email}, "password": {testPassword}})
	require.Equal(c.t, http.StatusFound, w.Code, w.Body.String())
}
