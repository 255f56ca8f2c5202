package models

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockroom/internal/domain/stock"
)

// CreateItemRequest describes a new catalog entry.
type CreateItemRequest struct {
	Kind          stock.Kind      `json:"kind"`
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Location      string          `json:"location"`
	BaseUnitPrice decimal.Decimal `json:"base_unit_price"`
	InitialOnHand int             `json:"initial_on_hand"`
	ExpiryDate    string          `json:"expiry_date,omitempty"` // YYYY-MM-DD, perishable only
	Serials       []string        `json:"serials,omitempty"`     // serialized only
}

// QuantityRequest carries the amount for reserve, release and ship calls.
type QuantityRequest struct {
	Amount int `json:"amount"`
}

// RestockRequest adds units, or one serial-tracked unit when Serial is set.
type RestockRequest struct {
	Amount int    `json:"amount"`
	Serial string `json:"serial"`
}

// StockOperation names a quantity-changing operation.
type StockOperation string

const (
	OperationRestock StockOperation = "restock"
	OperationReserve StockOperation = "reserve"
	OperationRelease StockOperation = "release"
	OperationShip    StockOperation = "ship"
)

// OperationResult reports the outcome of a stock operation. Accepted is false
// for operational rejections; the item is then unchanged.
type OperationResult struct {
	SKU       string         `json:"sku"`
	Operation StockOperation `json:"operation"`
	Amount    int            `json:"amount"`
	Accepted  bool           `json:"accepted"`
	Serials   []string       `json:"serials,omitempty"`
	Item      stock.Snapshot `json:"item"`
}

// PriceQuote is the price of units of an item under one strategy.
type PriceQuote struct {
	SKU      string          `json:"sku"`
	Units    int             `json:"units"`
	Strategy string          `json:"strategy"`
	Label    string          `json:"label"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

// StrategyInfo lists a registered pricing strategy.
type StrategyInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
