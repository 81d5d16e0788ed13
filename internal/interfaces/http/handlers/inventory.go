// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// InventoryHandler handles the admin stock ledger endpoints
type InventoryHandler struct {
	inventoryService *inventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(db *gorm.DB) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventory.NewService(db),
	}
}

// GetStockMovements handles GET /admin/inventory/movements
func (h *InventoryHandler) GetStockMovements(c *gin.Context) {
	var req inventory.MovementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid query parameters")
		return
	}

	response, err := h.inventoryService.GetMovements(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "stock movements retrieved", response)
}

// GetLowStock handles GET /admin/inventory/low-stock
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	threshold := 5
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, "invalid threshold")
			return
		}
		threshold = parsed
	}

	report, err := h.inventoryService.GetLowStockProducts(threshold)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "low stock products retrieved", gin.H{
		"threshold": threshold,
		"products":  report,
	})
}
