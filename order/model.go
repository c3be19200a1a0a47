package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sing3demons/go-bakery-service/crud"
)

type State string

const (
	StateNew       State = "NEW"
	StateConfirmed State = "CONFIRMED"
	StateReady     State = "READY"
	StateDelivered State = "DELIVERED"
	StateProblem   State = "PROBLEM"
	StateCancelled State = "CANCELLED"
)

var States = []State{StateNew, StateConfirmed, StateReady, StateDelivered, StateProblem, StateCancelled}

func ParseState(s string) (State, error) {
	state := State(strings.ToUpper(strings.TrimSpace(s)))
	if !state.Valid() {
		return "", fmt.Errorf("unknown order state %q", s)
	}
	return state, nil
}

func (s State) Valid() bool {
	for _, v := range States {
		if v == s {
			return true
		}
	}
	return false
}

// DisplayName is the state as shown to users, e.g. "Confirmed".
func (s State) DisplayName() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

type Customer struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Details     string `json:"details,omitempty"`
}

type PickupLocation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrderItem keeps the product name and unit price the order was placed with.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Comment     string          `json:"comment,omitempty"`
}

func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HistoryItem is one entry of the order log. ID is zero until the item is stored.
type HistoryItem struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	NewState  State     `json:"newState"`
	CreatedBy string    `json:"createdBy"`
	Timestamp time.Time `json:"timestamp"`
}

type Order struct {
	ID             int64          `json:"id"`
	DueDate        Date           `json:"dueDate"`
	DueTime        Clock          `json:"dueTime"`
	State          State          `json:"state"`
	Customer       Customer       `json:"customer"`
	PickupLocation PickupLocation `json:"pickupLocation"`
	Items          []OrderItem    `json:"items"`
	History        []HistoryItem  `json:"history"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NewOrder returns an unsaved order in state NEW with its "Order placed" history entry.
func NewOrder(actor crud.Actor, now time.Time) *Order {
	o := &Order{
		State: StateNew,
		Items: []OrderItem{},
	}
	o.AddHistoryItem(actor, "Order placed", now)
	return o
}

func (o *Order) AddHistoryItem(actor crud.Actor, message string, at time.Time) {
	o.History = append(o.History, HistoryItem{
		Message:   message,
		NewState:  o.State,
		CreatedBy: actor.Name,
		Timestamp: at,
	})
}

// ChangeState records "Order <STATE>" in the history only when the state actually changes.
func (o *Order) ChangeState(actor crud.Actor, state State, at time.Time) {
	changed := o.State != state && o.State != "" && state != ""
	o.State = state
	if changed {
		o.AddHistoryItem(actor, "Order "+string(state), at)
	}
}

func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

func (o *Order) Summary() Summary {
	return Summary{
		ID:             o.ID,
		DueDate:        o.DueDate,
		DueTime:        o.DueTime,
		State:          o.State,
		CustomerName:   o.Customer.FullName,
		PickupLocation: o.PickupLocation.Name,
		Items:          o.Items,
	}
}

// Summary is the read-only projection used by order lists.
type Summary struct {
	ID             int64       `json:"id"`
	DueDate        Date        `json:"dueDate"`
	DueTime        Clock       `json:"dueTime"`
	State          State       `json:"state"`
	CustomerName   string      `json:"customerName"`
	PickupLocation string      `json:"pickupLocation"`
	Items          []OrderItem `json:"items"`
}

// Filter selects summaries. An empty Text matches every customer and a nil After
// applies no due date bound.
type Filter struct {
	Text  string
	After *Date
}
