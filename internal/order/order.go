package order

import (
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/item"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusConfirmed  Status = "confirmed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Line references a catalog item by id.
type Line struct {
	Product  string `json:"product" bson:"product"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// Order represents a purchase made by a user.
type Order struct {
	ID         string    `json:"id"`
	User       string    `json:"user"`
	Products   []Line    `json:"products"`
	TotalPrice float64   `json:"totalPrice"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// LineInput is a requested order line. A nil Quantity means one unit.
type LineInput struct {
	Product  string `json:"product"`
	Quantity *int   `json:"quantity"`
}

// Patch lists the fields an update may change. The owner is never patchable.
type Patch struct {
	Products   []LineInput
	TotalPrice *float64
	Status     *Status
}

func (p Patch) empty() bool {
	return p.Products == nil && p.TotalPrice == nil && p.Status == nil
}

// PopulatedLine carries the item projection in place of the product id.
// Product is nil when the item no longer exists.
type PopulatedLine struct {
	Product  *item.Summary `json:"product"`
	Quantity int           `json:"quantity"`
}

type PopulatedOrder struct {
	ID         string          `json:"id"`
	User       string          `json:"user"`
	Products   []PopulatedLine `json:"products"`
	TotalPrice float64         `json:"totalPrice"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (o Order) productIDs() []string {
	ids := make([]string, 0, len(o.Products))
	for _, l := range o.Products {
		ids = append(ids, l.Product)
	}
	return ids
}

func (o Order) populate(summaries map[string]item.Summary) PopulatedOrder {
	lines := make([]PopulatedLine, 0, len(o.Products))
	for _, l := range o.Products {
		pl := PopulatedLine{Quantity: l.Quantity}
		if s, ok := summaries[l.Product]; ok {
			pl.Product = &s
		}
		lines = append(lines, pl)
	}
	return PopulatedOrder{
		ID:         o.ID,
		User:       o.User,
		Products:   lines,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
