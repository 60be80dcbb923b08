package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/service"
	"order-dashboard/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NotificationFeed serves recently emitted notifications
type NotificationFeed interface {
	RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error)
	Subscribe(ctx context.Context) <-chan models.Notification
}

// Handler contains HTTP handlers
type Handler struct {
	dashboard *service.Dashboard
	feed      NotificationFeed
}

// NewHandler creates a new HTTP handler. feed may be nil when the
// notification feed is disabled.
func NewHandler(dashboard *service.Dashboard, feed NotificationFeed) *Handler {
	return &Handler{
		dashboard: dashboard,
		feed:      feed,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PATCH("/orders/:id/status", h.setStatus)
		v1.POST("/orders/bulk-status", h.bulkStatus)

		v1.GET("/selection", h.getSelection)
		v1.POST("/selection/toggle", h.toggleSelection)
		v1.POST("/selection/select-all", h.selectAll)
		v1.DELETE("/selection", h.clearSelection)

		v1.GET("/notifications", h.recentNotifications)
		v1.GET("/notifications/stream", h.streamNotifications)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready only once the initial load succeeded
func (h *Handler) readinessCheck(c *gin.Context) {
	state, err := h.dashboard.State(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	code := http.StatusOK
	if state.Phase != service.PhaseReady {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": state.Phase,
		"orders":  state.Orders,
		"version": state.Version,
		"error":   state.Message,
		"time":    time.Now().Unix(),
	})
}

// listOrders returns one derived page of orders
func (h *Handler) listOrders(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query",
			"details": err.Error(),
		})
		return
	}

	page, err := h.dashboard.View(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	order, ok, err := h.dashboard.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// setStatus sets one order's status
func (h *Handler) setStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}

	id := c.Param("id")
	updated, err := h.dashboard.SetStatus(c.Request.Context(), id, status, models.SourceManual)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      id,
		"status":  status,
		"updated": updated,
	})
}

type bulkRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status" binding:"required"`
}

// bulkStatus applies a status to the given ids, or to the selection when
// none are given
func (h *Handler) bulkStatus(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}

	var res service.BulkResult
	if len(req.IDs) == 0 {
		res, err = h.dashboard.ApplySelected(c.Request.Context(), status)
	} else {
		res, err = h.dashboard.ApplyBulk(c.Request.Context(), req.IDs, status)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) getSelection(c *gin.Context) {
	ids, err := h.dashboard.Selection(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": ids, "count": len(ids)})
}

type toggleRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h *Handler) toggleSelection(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	selected, err := h.dashboard.Toggle(c.Request.Context(), req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "selected": selected})
}

type selectAllRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// selectAll adds the ids the client is showing to the selection
func (h *Handler) selectAll(c *gin.Context) {
	var req selectAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	n, err := h.dashboard.SelectAll(c.Request.Context(), req.IDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) clearSelection(c *gin.Context) {
	if err := h.dashboard.ClearSelection(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recentNotifications lists the newest notifications, newest first
func (h *Handler) recentNotifications(c *gin.Context) {
	if h.feed == nil {
		c.JSON(http.StatusOK, gin.H{"notifications": []models.Notification{}})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	notes, err := h.feed.RecentNotifications(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to read notifications",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

// streamNotifications relays live notifications as server-sent events
func (h *Handler) streamNotifications(c *gin.Context) {
	if h.feed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification feed disabled"})
		return
	}

	notes := h.feed.Subscribe(c.Request.Context())
	c.Stream(func(w io.Writer) bool {
		n, ok := <-notes
		if !ok {
			return false
		}
		c.SSEvent(string(n.Severity), n)
		return true
	})
}

// fail maps dashboard errors onto HTTP responses
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid status",
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrNotReady):
		state, stateErr := h.dashboard.State(c.Request.Context())
		if stateErr == nil && state.Phase == service.PhaseFailed {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Failed to load orders",
				"details": state.Message,
			})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Orders are still loading"})
	case errors.Is(err, service.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard stopped"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

func badBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
