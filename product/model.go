package product

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxNameLength = 255
	MaxPrice      = 100000
)

// Product is one item of the bakery catalogue. Price is in cents.
type Product struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Price     int       `json:"price" bson:"price"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

func (p Product) PriceDecimal() decimal.Decimal {
	return decimal.New(int64(p.Price), -2)
}
