// internal/domain/enquiry/entity.go
package enquiry

import (
	"time"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/domain/order"
)

// EnquiryStatus represents the follow-up state of an enquiry.
type EnquiryStatus string

const (
	EnquiryStatusPending   EnquiryStatus = "pending"
	EnquiryStatusContacted EnquiryStatus = "contacted"
	EnquiryStatusConverted EnquiryStatus = "converted"
	EnquiryStatusCancelled EnquiryStatus = "cancelled"
)

// ValidStatuses lists every accepted enquiry status.
var ValidStatuses = []EnquiryStatus{
	EnquiryStatusPending,
	EnquiryStatusContacted,
	EnquiryStatusConverted,
	EnquiryStatusCancelled,
}

// IsValidStatus reports whether s is in the accepted vocabulary.
func IsValidStatus(s EnquiryStatus) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Enquiry captures a cart from a customer outside the delivery area. It
// snapshots items like an order but never touches stock or payment.
type Enquiry struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	CustomerName  string        `gorm:"not null;size:200" json:"customer_name"`
	CustomerPhone string        `gorm:"size:20" json:"customer_phone"`
	CustomerEmail string        `gorm:"size:255" json:"customer_email"`
	Status        EnquiryStatus `gorm:"not null;default:'pending'" json:"status"`

	ItemsTotal int64 `gorm:"not null" json:"items_total"` // Paise

	ShippingAddress order.Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items         []EnquiryItem          `gorm:"foreignKey:EnquiryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []EnquiryStatusHistory `gorm:"foreignKey:EnquiryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// EnquiryItem represents a snapshotted cart line on an enquiry
type EnquiryItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EnquiryID  uint      `gorm:"not null;index" json:"enquiry_id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Image      string    `gorm:"size:500" json:"image"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      int64     `gorm:"not null" json:"price"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EnquiryStatusHistory tracks enquiry status changes
type EnquiryStatusHistory struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	EnquiryID uint          `gorm:"not null;index" json:"enquiry_id"`
	Status    EnquiryStatus `gorm:"not null" json:"status"`
	Comment   string        `gorm:"type:text" json:"comment"`
	CreatedBy uint          `gorm:"index" json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

// TableName overrides
func (Enquiry) TableName() string              { return "enquiries" }
func (EnquiryItem) TableName() string          { return "enquiry_items" }
func (EnquiryStatusHistory) TableName() string { return "enquiry_status_history" }
