package dashboard

import (
	"github.com/shopspring/decimal"
	"github.com/sing3demons/go-bakery-service/order"
)

// SalesYears is how many years of monthly sales the dashboard shows, current year first.
const SalesYears = 3

// NotAvailableStates are the states of orders that cannot be picked up yet.
var NotAvailableStates = []order.State{order.StateNew, order.StateConfirmed, order.StateProblem}

type DeliveryStats struct {
	DueToday          int64 `json:"dueToday"`
	DueTomorrow       int64 `json:"dueTomorrow"`
	DeliveredToday    int64 `json:"deliveredToday"`
	NotAvailableToday int64 `json:"notAvailableToday"`
	NewOrders         int64 `json:"newOrders"`
}

type ProductDelivery struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
}

type MonthlySales struct {
	Year  int
	Month int
	Total decimal.Decimal
}

type Data struct {
	Year                int                  `json:"year"`
	Month               int                  `json:"month"`
	DeliveryStats       DeliveryStats        `json:"deliveryStats"`
	DeliveriesThisMonth []*int64             `json:"deliveriesThisMonth"`
	DeliveriesThisYear  []*int64             `json:"deliveriesThisYear"`
	SalesPerMonth       [][]*decimal.Decimal `json:"salesPerMonth"`
	ProductDeliveries   []ProductDelivery    `json:"productDeliveries"`
}
