package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"cafe-storefront/internal/models"
	"cafe-storefront/internal/render"
	"cafe-storefront/internal/service"
	"cafe-storefront/internal/store"
	"cafe-storefront/internal/util"
	"cafe-storefront/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const msgRequestFailed = "Something went wrong. Please reload the page."

// ReadinessCheck reports whether the view store can serve requests
type ReadinessCheck func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	storefront *service.Storefront
	renderer   *render.Renderer
	staticDir  string
	ready      ReadinessCheck
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(storefront *service.Storefront, renderer *render.Renderer, staticDir string, ready ReadinessCheck) *Handler {
	return &Handler{
		storefront: storefront,
		renderer:   renderer,
		staticDir:  staticDir,
		ready:      ready,
		logger:     util.GetLogger(),
	}
}

type addToCartForm struct {
	ProductID int64 `form:"product_id" binding:"required"`
	Quantity  int   `form:"quantity"`
}

type stepForm struct {
	Delta    int `form:"delta" binding:"required"`
	Quantity int `form:"quantity"`
}

type modalForm struct {
	Target string `form:"target"`
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.SetHTMLTemplate(h.renderer.Template())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Static("/picture", filepath.Join(h.staticDir, "picture"))

	router.GET("/", h.openView)
	router.GET("/views/:id", h.showView)

	views := router.Group("/views/:id")
	{
		views.POST("/tabs/:tab", h.selectTab)
		views.POST("/products/:productID/step", h.stepQuantity)
		views.POST("/cart", h.addToCart)
		views.POST("/cart/:index/remove", h.removeFromCart)
		views.POST("/cart/clear", h.clearCart)
		views.POST("/orders", h.submitOrder)
		views.POST("/orders/history", h.loadOrderHistory)
		views.POST("/orders/:orderID/details", h.viewOrderDetails)
		views.POST("/modal/close", h.clickModal)
		views.POST("/alert/dismiss", h.dismissAlert)
		views.POST("/account/login", h.login)
		views.POST("/account/register", h.register)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"details": err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// openView starts a page view and sends the browser to it
func (h *Handler) openView(c *gin.Context) {
	st, err := h.storefront.OpenView(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to open view", zap.Error(err))
		h.renderFailure(c, http.StatusServiceUnavailable, service.MsgInitFailed)
		return
	}
	c.Redirect(http.StatusSeeOther, "/views/"+st.ID)
}

// showView renders an existing page view
func (h *Handler) showView(c *gin.Context) {
	st, err := h.storefront.View(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrViewNotFound) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if err != nil {
		h.logger.Error("Failed to load view", zap.String("view_id", c.Param("id")), zap.Error(err))
		h.renderFailure(c, http.StatusInternalServerError, msgRequestFailed)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, render.PageTemplate, h.renderer.Page(st, h.storefront.Now()))
}

func (h *Handler) selectTab(c *gin.Context) {
	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.SelectTab(ctx, id, c.Param("tab"))
	})
}

func (h *Handler) stepQuantity(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}
	var form stepForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid quantity step")
		return
	}

	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.StepQuantity(ctx, id, productID, form.Quantity, form.Delta)
	})
}

func (h *Handler) addToCart(c *gin.Context) {
	var form addToCartForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid cart item")
		return
	}

	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.AddToCart(ctx, id, form.ProductID, form.Quantity)
	})
}

func (h *Handler) removeFromCart(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "Invalid cart line")
		return
	}

	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.RemoveFromCart(ctx, id, index)
	})
}

func (h *Handler) clearCart(c *gin.Context) {
	h.act(c, h.storefront.ClearCart)
}

func (h *Handler) submitOrder(c *gin.Context) {
	var form models.CustomerForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid order form")
		return
	}

	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.SubmitOrder(ctx, id, form)
	})
}

func (h *Handler) loadOrderHistory(c *gin.Context) {
	h.act(c, h.storefront.LoadOrderHistory)
}

func (h *Handler) viewOrderDetails(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderID"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.ViewOrderDetails(ctx, id, orderID)
	})
}

func (h *Handler) clickModal(c *gin.Context) {
	var form modalForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid modal target")
		return
	}

	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.ClickModal(ctx, id, view.ClickTarget(form.Target))
	})
}

func (h *Handler) dismissAlert(c *gin.Context) {
	h.act(c, h.storefront.DismissAlert)
}

func (h *Handler) login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid login form")
		return
	}

	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.Login(ctx, id, form)
	})
}

func (h *Handler) register(c *gin.Context) {
	var form models.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid registration form")
		return
	}

	h.act(c, func(ctx context.Context, id string) (*view.State, error) {
		return h.storefront.Register(ctx, id, form)
	})
}

// act runs one user action against the view named in the path and sends
// the browser back to it
func (h *Handler) act(c *gin.Context, action func(ctx context.Context, id string) (*view.State, error)) {
	id := c.Param("id")

	_, err := action(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrViewNotFound):
		c.Redirect(http.StatusSeeOther, "/")
	case err != nil:
		h.logger.Error("Action failed",
			zap.String("view_id", id),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		h.renderFailure(c, http.StatusInternalServerError, msgRequestFailed)
	default:
		c.Redirect(http.StatusSeeOther, "/views/"+id)
	}
}

// renderFailure shows a page with only an error banner
func (h *Handler) renderFailure(c *gin.Context, status int, message string) {
	now := h.storefront.Now()
	st := view.New("", now)
	st.ShowAlert(message, view.SeverityError, now, 24*time.Hour)
	c.HTML(status, render.PageTemplate, h.renderer.Page(st, now))
}

func badRequest(c *gin.Context, message string) {
	c.String(http.StatusBadRequest, message)
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
