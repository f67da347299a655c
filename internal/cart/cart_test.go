package cart_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-storefront/internal/cart"
	"github.com/Keoroanthony/go-storefront/internal/db/dbtest"
)

func TestAdd(t *testing.T) {
	empty := cart.Cart{}

	once := empty.Add(7)
	twice := once.Add(7)

	assert.Equal(t, cart.Cart{7: {Quantity: 2}}, twice)
	assert.Equal(t, cart.Cart{7: {Quantity: 1}}, once, "Add must not mutate its receiver")
	assert.True(t, empty.IsEmpty())

	var nilCart cart.Cart
	assert.Equal(t, cart.Cart{3: {Quantity: 1}}, nilCart.Add(3))

	mixed := twice.Add(1)
	assert.Equal(t, []uint{1, 7}, mixed.ProductIDs())
	assert.Equal(t, 3, mixed.Items())
}

func TestEncodeDecode(t *testing.T) {
	raw, err := cart.Cart{1: {Quantity: 2}, 2: {Quantity: 1}}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":{"quantity":2},"2":{"quantity":1}}`, raw)

	var nilCart cart.Cart
	raw, err = nilCart.Encode()
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)

	c, err := cart.Decode(`{"5":{"quantity":3},"6":{"quantity":0}}`)
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{5: {Quantity: 3}}, c)

	c, err = cart.Decode("")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = cart.Decode("not json")
	assert.Error(t, err)
}

// sessionRequest runs fn inside a request that carries cookie, returning the
// cookie the response set.
func sessionRequest(t *testing.T, cookieHeader string, fn func(s sessions.Session)) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(sessions.Sessions("gosess", cookie.NewStore([]byte("test-secret-key"))))
	r.GET("/", func(c *gin.Context) { fn(sessions.Default(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}
	r.ServeHTTP(w, req)
	return w.Header().Get("Set-Cookie")
}

func TestSessionRoundTrip(t *testing.T) {
	var loaded cart.Cart

	first := sessionRequest(t, "", func(s sessions.Session) {
		c, err := cart.Load(s)
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
		require.NoError(t, cart.Save(s, c.Add(4).Add(4)))
	})
	require.NotEmpty(t, first)

	second := sessionRequest(t, first, func(s sessions.Session) {
		c, err := cart.Load(s)
		require.NoError(t, err)
		loaded = c
		cart.Clear(s)
		require.NoError(t, s.Save())
	})
	assert.Equal(t, cart.Cart{4: {Quantity: 2}}, loaded)

	sessionRequest(t, second, func(s sessions.Session) {
		assert.Nil(t, s.Get(cart.SessionKey))
	})
}

func TestLockerSerializesSameKey(t *testing.T) {
	l := cart.NewLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		c       = cart.Cart{}
		workers = 50
	)
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			unlock := l.Lock("session-a")
			defer unlock()

			// read-modify-write outside mu, guarded only by the key lock
			mu.Lock()
			snapshot := c
			mu.Unlock()
			next := snapshot.Add(1)
			mu.Lock()
			c = next
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, c[1].Quantity)
}

func TestView(t *testing.T) {
	gdb := dbtest.Open(t)
	seed := dbtest.SeedCatalog(t, gdb)

	c := cart.Cart{}.Add(seed.Smartphone.ID).Add(seed.Ultrabook.ID).Add(seed.Ultrabook.ID).Add(9999)

	lines, err := cart.View(context.Background(), gdb, c)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, seed.Ultrabook.ID, lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "Thin and light", lines[0].Product.Description)
	assert.Equal(t, seed.Smartphone.ID, lines[1].Product.ID)
	assert.Equal(t, 1, lines[1].Quantity)

	lines, err = cart.View(context.Background(), gdb, cart.Cart{})
	require.NoError(t, err)
	assert.Empty(t, lines)
}
