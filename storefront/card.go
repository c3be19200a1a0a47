package storefront

import (
	"github.com/sing3demons/go-bakery-service/order"
)

// Card is one order as the storefront list shows it. Which date fields are filled
// depends on how close the due date is.
type Card struct {
	ID            int64             `json:"id"`
	Header        *Header           `json:"header"`
	Place         string            `json:"place,omitempty"`
	Time          string            `json:"time,omitempty"`
	ShortDay      string            `json:"shortDay,omitempty"`
	SecondaryTime string            `json:"secondaryTime,omitempty"`
	Month         string            `json:"month,omitempty"`
	FullDay       string            `json:"fullDay,omitempty"`
	State         order.State       `json:"state"`
	FullName      string            `json:"fullName"`
	Items         []order.OrderItem `json:"items"`
}

func NewCard(o order.Summary, today order.Date, header *Header) Card {
	c := Card{
		ID:       o.ID,
		Header:   header,
		State:    o.State,
		FullName: o.CustomerName,
		Items:    o.Items,
	}
	if c.Items == nil {
		c.Items = []order.OrderItem{}
	}

	due := o.DueDate.Time()
	switch Classify(o.DueDate, today, true) {
	case BucketRecent:
		c.Place = o.PickupLocation
		c.Time = o.DueTime.String()
	case BucketThisWeek:
		c.Place = o.PickupLocation
		c.ShortDay = due.Format("Mon")
		c.SecondaryTime = o.DueTime.String()
	default:
		c.Month = due.Format("Jan 2")
		c.FullDay = due.Format("Monday")
	}
	return c
}
