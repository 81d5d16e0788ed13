// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeInbound  MovementType = "inbound"
	MovementTypeOutbound MovementType = "outbound"
)

// MovementReason represents why stock changed
type MovementReason string

const (
	ReasonSale       MovementReason = "sale"
	ReasonRestock    MovementReason = "restock"
	ReasonAdjustment MovementReason = "adjustment"
)

// StockMovement is an audit record of a change to a product's stock.
// The running stock level itself lives on the product row; movements
// only record what happened and why.
type StockMovement struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ProductID     uint           `gorm:"not null;index" json:"product_id"`
	Type          MovementType   `gorm:"not null;size:20" json:"type"`
	Reason        MovementReason `gorm:"not null;size:20" json:"reason"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	ReferenceType string         `gorm:"size:50" json:"reference_type,omitempty"`
	ReferenceID   uint           `json:"reference_id,omitempty"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     uint           `gorm:"index" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TableName returns the table name for StockMovement
func (StockMovement) TableName() string {
	return "stock_movements"
}
