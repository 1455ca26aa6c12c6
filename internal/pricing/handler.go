package pricing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shelfvision-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the pricing service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches pricing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/prices/compare", h.compare)
}

func (h *Handler) compare(c *gin.Context) {
	product := c.Query("product")
	if product == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "product is required", nil)
		return
	}
	quantity := c.Query("quantity")
	sortBy := ParseSortCriteria(c.Query("sortBy"))

	limit := 5
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 20 {
		limit = 20
	}

	offers, err := h.Svc.Compare(c.Request.Context(), product, quantity, sortBy, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoAPIKey):
			respond.Error(c, http.StatusServiceUnavailable, "not_configured", "price comparison is not configured", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "search_failed", "failed to fetch prices", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"product":  product,
		"quantity": quantity,
		"sortBy":   string(sortBy),
		"offers":   offers,
	})
}
