package cart

import (
	"fmt"

	"github.com/gin-contrib/sessions"
)

// Load reads the cart from the session. A missing cart is an empty one.
func Load(s sessions.Session) (Cart, error) {
	raw, _ := s.Get(SessionKey).(string)
	return Decode(raw)
}

// Store puts c into the session without saving it.
func Store(s sessions.Session, c Cart) error {
	raw, err := c.Encode()
	if err != nil {
		return err
	}
	s.Set(SessionKey, raw)
	return nil
}

// Save stores c and writes the session.
func Save(s sessions.Session, c Cart) error {
	if err := Store(s, c); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return fmt.Errorf("cart.Save: %w", err)
	}
	return nil
}

// Clear removes the cart from the session without saving it.
func Clear(s sessions.Session) {
	s.Delete(SessionKey)
}
