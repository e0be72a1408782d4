package cart

import (
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/item"
)

// Line is one product entry of a cart. A cart holds at most one line per
// product.
type Line struct {
	ProductID string `json:"productId" bson:"productId"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart is the per-user shopping cart.
type Cart struct {
	UserID    string    `json:"userId"`
	Products  []Line    `json:"products"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PopulatedLine replaces the product id with the item projection. Product is
// nil when the item no longer exists.
type PopulatedLine struct {
	Product  *item.Summary `json:"productId"`
	Quantity int           `json:"quantity"`
}

type PopulatedCart struct {
	UserID    string          `json:"userId"`
	Products  []PopulatedLine `json:"products"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Snapshot is the read model: the number of lines and the populated cart,
// nil when the user has no cart.
type Snapshot struct {
	Count int            `json:"count"`
	Cart  *PopulatedCart `json:"cart"`
}

// MaxLineQuantity bounds the quantity of a single cart line.
const MaxLineQuantity = 10000

// Add merges qty into the line for productID, appending a new line when
// none exists. It fails with ErrQuantityLimit when the line would exceed
// MaxLineQuantity and leaves the cart unchanged.
func (c *Cart) Add(productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(productID); i >= 0 {
		if c.Products[i].Quantity > MaxLineQuantity-qty {
			return ErrQuantityLimit
		}
		c.Products[i].Quantity += qty
		return nil
	}
	if qty > MaxLineQuantity {
		return ErrQuantityLimit
	}
	c.Products = append(c.Products, Line{ProductID: productID, Quantity: qty})
	return nil
}

// SetQuantity replaces the quantity of an existing line. It reports false
// when the cart has no line for productID.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Products[i].Quantity = qty
	return true
}

// Remove drops the line for productID. Removing a missing line is a no-op.
func (c *Cart) Remove(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Products = append(c.Products[:i], c.Products[i+1:]...)
	}
}

func (c Cart) indexOf(productID string) int {
	for i, l := range c.Products {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := c
	out.Products = make([]Line, len(c.Products))
	copy(out.Products, c.Products)
	return out
}

func (c Cart) productIDs() []string {
	ids := make([]string, 0, len(c.Products))
	for _, l := range c.Products {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func (c Cart) populate(summaries map[string]item.Summary) *PopulatedCart {
	lines := make([]PopulatedLine, 0, len(c.Products))
	for _, l := range c.Products {
		pl := PopulatedLine{Quantity: l.Quantity}
		if s, ok := summaries[l.ProductID]; ok {
			pl.Product = &s
		}
		lines = append(lines, pl)
	}
	return &PopulatedCart{
		UserID:    c.UserID,
		Products:  lines,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
