package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"catalogue-service/internal/catalog"
	"catalogue-service/internal/models"
	"catalogue-service/internal/service"
	"catalogue-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// LeadReader lists the relayed leads of a session
type LeadReader interface {
	GetLeadsBySession(ctx context.Context, sessionID string) ([]models.Lead, error)
}

// Handler contains HTTP handlers
type Handler struct {
	sessionService *service.SessionService
	catalogService *service.CatalogService
	leads          LeadReader
	dependencies   map[string]Pinger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sessionService *service.SessionService,
	catalogService *service.CatalogService,
	leads LeadReader,
	dependencies map[string]Pinger,
) *Handler {
	return &Handler{
		sessionService: sessionService,
		catalogService: catalogService,
		leads:          leads,
		dependencies:   dependencies,
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
		v1.POST("/sessions", h.createSession)
		v1.GET("/sessions/:id", h.getSession)
		v1.DELETE("/sessions/:id", h.endSession)
		v1.POST("/sessions/:id/register", h.register)
		v1.PUT("/sessions/:id/brand", h.selectBrand)
		v1.PUT("/sessions/:id/system", h.selectSystem)
		v1.PUT("/sessions/:id/product", h.selectProduct)
		v1.POST("/sessions/:id/back", h.back)
		v1.POST("/sessions/:id/reset", h.reset)
		v1.POST("/sessions/:id/brands-menu", h.brandsMenu)
		v1.GET("/sessions/:id/view/:screen", h.view)
		v1.GET("/sessions/:id/leads", h.listLeads)

		v1.GET("/brands", h.listBrands)
		v1.GET("/brands/:brand", h.getBrand)
		v1.GET("/brands/:brand/systems/:system/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.POST("/annotate", h.annotate)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every backing dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, dep := range h.dependencies {
		if err := dep.Ping(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"details": failed,
			"time":    time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) createSession(c *gin.Context) {
	sess, err := h.sessionService.Create(c.Request.Context())
	if err != nil {
		h.sessionError(c, "Failed to create session", err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) getSession(c *gin.Context) {
	sess, err := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, "Failed to get session", err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) endSession(c *gin.Context) {
	if err := h.sessionService.End(c.Request.Context(), c.Param("id")); err != nil {
		h.sessionError(c, "Failed to end session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// register handles the register form
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess, err := h.sessionService.Register(c.Request.Context(), c.Param("id"), req.UserInfo())
	if err != nil {
		h.sessionError(c, "Failed to register", err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) selectBrand(c *gin.Context) {
	var req service.SelectBrandRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.sessionService.SelectBrand(c.Request.Context(), c.Param("id"), req.BrandID)
	h.respondSession(c, "Failed to select brand", sess, err)
}

func (h *Handler) selectSystem(c *gin.Context) {
	var req service.SelectSystemRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.sessionService.SelectSystem(c.Request.Context(), c.Param("id"), req.SystemID)
	h.respondSession(c, "Failed to select system", sess, err)
}

func (h *Handler) selectProduct(c *gin.Context) {
	var req service.SelectProductRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.sessionService.SelectProduct(c.Request.Context(), c.Param("id"), req.ProductID)
	h.respondSession(c, "Failed to select product", sess, err)
}

func (h *Handler) back(c *gin.Context) {
	res, err := h.sessionService.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, "Failed to go back", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) reset(c *gin.Context) {
	sess, err := h.sessionService.Reset(c.Request.Context(), c.Param("id"))
	h.respondSession(c, "Failed to reset session", sess, err)
}

func (h *Handler) brandsMenu(c *gin.Context) {
	sess, err := h.sessionService.GoToBrands(c.Request.Context(), c.Param("id"))
	h.respondSession(c, "Failed to open brands menu", sess, err)
}

// view resolves the screen a session sees, following guard redirects
func (h *Handler) view(c *gin.Context) {
	var filter catalog.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query",
			"details": err.Error(),
		})
		return
	}

	v, err := h.sessionService.View(c.Request.Context(), c.Param("id"), c.Param("screen"), filter)
	if err != nil {
		h.sessionError(c, "Failed to resolve view", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// listLeads reports the relay outcome of a session's registrations
func (h *Handler) listLeads(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.sessionService.Get(c.Request.Context(), sessionID); err != nil {
		h.sessionError(c, "Failed to get session", err)
		return
	}

	leads, err := h.leads.GetLeadsBySession(c.Request.Context(), sessionID)
	if err != nil {
		h.sessionError(c, "Failed to list leads", err)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

func (h *Handler) listBrands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"brands": h.catalogService.Brands(c.Request.Context()),
	})
}

func (h *Handler) getBrand(c *gin.Context) {
	brand, ok := h.catalogService.Brand(c.Request.Context(), c.Param("brand"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
		return
	}
	c.JSON(http.StatusOK, brand)
}

func (h *Handler) listProducts(c *gin.Context) {
	var filter catalog.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query",
			"details": err.Error(),
		})
		return
	}

	listing, ok := h.catalogService.Products(c.Request.Context(), c.Param("brand"), c.Param("system"), filter)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "System not found"})
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) getProduct(c *gin.Context) {
	detail, ok := h.catalogService.Product(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) annotate(c *gin.Context) {
	var req service.AnnotateRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"spans": h.catalogService.Annotate(c.Request.Context(), req.Text),
	})
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func (h *Handler) respondSession(c *gin.Context, message string, sess *service.Session, err error) {
	if err != nil {
		h.sessionError(c, message, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// sessionError maps service errors onto status codes
func (h *Handler) sessionError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSessionBusy):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnknownScreen):
		status = http.StatusBadRequest
	default:
		util.GetLogger().Error(message,
			zap.String("session_id", c.Param("id")),
			zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   message,
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
