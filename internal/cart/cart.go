// Package cart holds the session scoped shopping cart. A Cart is a plain value:
// operations return a new Cart and never touch the session themselves.
package cart

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// SessionKey is where the encoded cart lives in the session.
const SessionKey = "cart"

type Line struct {
	Quantity int `json:"quantity"`
}

// Cart maps a product id to its line. Ids are not checked against the catalog
// until the cart is turned into an order.
type Cart map[uint]Line

// Add returns a copy of c with the product's quantity incremented, or set to 1
// when the product was not in the cart yet.
func (c Cart) Add(productID uint) Cart {
	next := make(Cart, len(c)+1)
	maps.Copy(next, c)

	l := next[productID]
	l.Quantity++
	next[productID] = l
	return next
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// ProductIDs returns the ids in ascending order.
func (c Cart) ProductIDs() []uint {
	return slices.Sorted(maps.Keys(c))
}

// Items counts every unit in the cart.
func (c Cart) Items() int {
	n := 0
	for _, l := range c {
		n += l.Quantity
	}
	return n
}

func (c Cart) Encode() (string, error) {
	if c == nil {
		c = Cart{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("cart.Encode: %w", err)
	}
	return string(b), nil
}

// Decode parses an encoded cart. Lines with a non-positive quantity are
// dropped.
func Decode(s string) (Cart, error) {
	c := Cart{}
	if s == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return Cart{}, fmt.Errorf("cart.Decode: %w", err)
	}
	for id, l := range c {
		if l.Quantity < 1 {
			delete(c, id)
		}
	}
	return c, nil
}
