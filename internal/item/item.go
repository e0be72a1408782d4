package item

import (
	"fmt"
	"strings"
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
)

// MaxDescriptionWords bounds the short description of an item.
const MaxDescriptionWords = 100

// Item is a catalog entry referenced by cart lines and order lines.
type Item struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	FullDescription string    `json:"fullDescription,omitempty"`
	Price           float64   `json:"price"`
	ImgLink         string    `json:"imgLink"`
	FormationDate   time.Time `json:"formationDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Summary is the projection embedded when carts and orders are populated.
type Summary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImgLink     string  `json:"imgLink"`
	Description string  `json:"description"`
}

func (i Item) Summary() Summary {
	return Summary{
		ID:          i.ID,
		Name:        i.Name,
		Price:       i.Price,
		ImgLink:     i.ImgLink,
		Description: i.Description,
	}
}

// Patch carries the optional fields of an item update. Nil means unchanged.
type Patch struct {
	Name            *string
	Description     *string
	FullDescription *string
	Price           *float64
	ImgLink         *string
	FormationDate   *time.Time
}

// ValidateDescription rejects descriptions longer than MaxDescriptionWords.
// Empty text is left to the required-field check.
func ValidateDescription(text string) error {
	words := len(strings.Fields(text))
	if words > MaxDescriptionWords {
		return apperror.New(apperror.InvalidArgument,
			fmt.Sprintf("description must contain at most %d words, but contains %d", MaxDescriptionWords, words))
	}
	return nil
}

func (i Item) validate() error {
	if strings.TrimSpace(i.Name) == "" || strings.TrimSpace(i.Description) == "" || i.FormationDate.IsZero() {
		return ErrMissingFields
	}
	if i.Price < 0 {
		return ErrInvalidPrice
	}
	return ValidateDescription(i.Description)
}

func (i *Item) apply(p Patch) {
	if p.Name != nil {
		i.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.FullDescription != nil {
		i.FullDescription = *p.FullDescription
	}
	if p.Price != nil {
		i.Price = *p.Price
	}
	if p.ImgLink != nil {
		i.ImgLink = *p.ImgLink
	}
	if p.FormationDate != nil {
		i.FormationDate = *p.FormationDate
	}
}
