package models

import (
	"time"

	"github.com/mamadbah2/stockroom/internal/domain/stock"
)

// ItemReport is one item's section of a StockReport.
type ItemReport struct {
	Item        stock.Snapshot `bson:"item" json:"item"`
	RecentAudit []string       `bson:"recent_audit" json:"recent_audit"`
}

// StockReport is the catalog-wide summary archived to MongoDB and pushed to
// the report webhook.
type StockReport struct {
	ID           string       `bson:"_id" json:"id"`
	GeneratedAt  time.Time    `bson:"generated_at" json:"generated_at"`
	ItemCount    int          `bson:"item_count" json:"item_count"`
	TotalOnHand  int          `bson:"total_on_hand" json:"total_on_hand"`
	TotalReserve int          `bson:"total_reserved" json:"total_reserved"`
	OutOfStock   []string     `bson:"out_of_stock" json:"out_of_stock"`
	QueueItems   []string     `bson:"queue_items" json:"queue_items"`
	QueuePaused  bool         `bson:"queue_paused" json:"queue_paused"`
	Items        []ItemReport `bson:"items" json:"items"`
	Text         string       `bson:"text" json:"text"`
}
