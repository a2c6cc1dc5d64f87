package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/order"
)

type orderLineView struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Qty        int32     `json:"qty"`
	PriceMinor int64     `json:"price_minor"`
	CreatedAt  time.Time `json:"created_at"`
}

type orderView struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"owner_id"`
	Status     string          `json:"status"`
	Lines      []orderLineView `json:"lines"`
	TotalMinor int64           `json:"total_minor"`
	Version    int64           `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func toOrderView(o domain.Order) orderView {
	lines := make([]orderLineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineView{
			ID:         l.ID,
			ProductID:  l.ProductID,
			Qty:        l.Qty,
			PriceMinor: l.PriceMinor,
			CreatedAt:  l.CreatedAt,
		})
	}
	return orderView{
		ID:         o.ID,
		OwnerID:    o.OwnerID,
		Status:     string(o.Status),
		Lines:      lines,
		TotalMinor: o.TotalMinor,
		Version:    o.Version,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toOrderViews(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views
}

type createOrderItem struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

type createOrderRequest struct {
	Items []createOrderItem `json:"items"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	items := make([]domain.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.ItemRequest{ProductID: item.ProductID, Qty: item.Qty})
	}

	idemKey := strings.TrimSpace(c.GetHeader(headerIdemKey))
	created, err := s.orders.Create(c.Request.Context(), callerFrom(c), items, idemKey)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderView(created))
}

func (s *Server) getOrder(c *gin.Context) {
	got, err := s.orders.Get(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(got))
}

func (s *Server) listOwnOrders(c *gin.Context) {
	list, err := s.orders.ListOwn(c.Request.Context(), callerFrom(c), parseLimit(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderViews(list))
}

func (s *Server) listAllOrders(c *gin.Context) {
	list, err := s.orders.ListAll(c.Request.Context(), callerFrom(c), parseLimit(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderViews(list))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updated, err := s.orders.UpdateStatus(
		c.Request.Context(), callerFrom(c), c.Param("id"), domain.OrderStatus(req.Status),
	)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(updated))
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := order.HTTPStatus(err)
	if status >= 500 {
		s.logger.WithError(err).WithField("path", c.FullPath()).Error("request error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
