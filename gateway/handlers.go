package gateway

import (
	"net/http"
	"time"

	"github.com/example/brewbuddy/pkg/actors"
	storefront "github.com/example/brewbuddy/pkg/grpc"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
)

var httpStatus = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.NotFound:           http.StatusNotFound,
	codes.FailedPrecondition: http.StatusUnprocessableEntity,
	codes.Aborted:            http.StatusConflict,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
	codes.Canceled:           http.StatusRequestTimeout,
}

func (g *Gateway) fail(c *gin.Context, err error) {
	code := storefront.ErrorCode(err)
	st, ok := httpStatus[code]
	if !ok {
		g.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": codes.Internal.String()})
		return
	}
	c.JSON(st, gin.H{"error": err.Error(), "code": code.String()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codes.InvalidArgument.String()})
}

// ask forwards msg to the request's session actor.
func ask[T any](g *Gateway, c *gin.Context, msg interface{}) (T, bool) {
	out, err := actors.Ask[T](c.Request.Context(), g.registry, c.GetHeader(SessionHeader), msg)
	if err != nil {
		g.fail(c, err)
		return out, false
	}
	return out, true
}

func (g *Gateway) listProducts(c *gin.Context) {
	products := g.catalog.Filter(c.Query("category"), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (g *Gateway) getProduct(c *gin.Context) {
	product, ok := g.catalog.Product(c.Param("id"))
	if !ok {
		g.fail(c, session.ErrUnknownProduct)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (g *Gateway) popularProducts(c *gin.Context) {
	products := g.catalog.Popular()
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

// configureProduct returns the product's starting configuration, with the
// session's saved default customizations applied.
func (g *Gateway) configureProduct(c *gin.Context) {
	msg := &actors.ConfigureProduct{ProductID: c.Param("id")}
	if config, ok := ask[session.Configuration](g, c, msg); ok {
		c.JSON(http.StatusOK, config)
	}
}

func (g *Gateway) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": g.catalog.CategoryCounts()})
}

func (g *Gateway) listStores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stores": g.catalog.Stores()})
}

func (g *Gateway) getCart(c *gin.Context) {
	if summary, ok := ask[session.CartSummary](g, c, &actors.GetCart{}); ok {
		c.JSON(http.StatusOK, summary)
	}
}

func (g *Gateway) addCartLine(c *gin.Context) {
	var req session.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if line, ok := ask[models.CartLine](g, c, &actors.AddToCart{Request: req}); ok {
		c.JSON(http.StatusCreated, line)
	}
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (g *Gateway) updateCartLine(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg := &actors.UpdateCartLine{LineID: c.Param("id"), Quantity: *req.Quantity}
	if summary, ok := ask[session.CartSummary](g, c, msg); ok {
		c.JSON(http.StatusOK, summary)
	}
}

func (g *Gateway) removeCartLine(c *gin.Context) {
	if summary, ok := ask[session.CartSummary](g, c, &actors.RemoveCartLine{LineID: c.Param("id")}); ok {
		c.JSON(http.StatusOK, summary)
	}
}

func (g *Gateway) clearCart(c *gin.Context) {
	if summary, ok := ask[session.CartSummary](g, c, &actors.ClearCart{}); ok {
		c.JSON(http.StatusOK, summary)
	}
}

func (g *Gateway) createOrder(c *gin.Context) {
	var req orders.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}
	if order, ok := ask[models.Order](g, c, &actors.PlaceOrder{Request: req}); ok {
		c.JSON(http.StatusCreated, order)
	}
}

func (g *Gateway) listOrders(c *gin.Context) {
	if list, ok := ask[[]models.Order](g, c, &actors.ListOrders{}); ok {
		c.JSON(http.StatusOK, gin.H{"orders": list, "total": len(list)})
	}
}

func (g *Gateway) getOrder(c *gin.Context) {
	if order, ok := ask[models.Order](g, c, &actors.GetOrder{OrderID: c.Param("id")}); ok {
		c.JSON(http.StatusOK, order)
	}
}

type statusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (g *Gateway) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg := &actors.UpdateOrderStatus{OrderID: c.Param("id"), Status: req.Status}
	if order, ok := ask[models.Order](g, c, msg); ok {
		c.JSON(http.StatusOK, order)
	}
}

func (g *Gateway) exportOrders(c *gin.Context) {
	list, ok := ask[[]models.Order](g, c, &actors.ListOrders{})
	if !ok {
		return
	}

	filename := "orders-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := orders.ExportXLSX(c.Writer, list); err != nil {
		g.logger.Error("Failed to write order export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}

func (g *Gateway) listFavorites(c *gin.Context) {
	if products, ok := ask[[]models.Product](g, c, &actors.ListFavorites{}); ok {
		c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
	}
}

func (g *Gateway) toggleFavorite(c *gin.Context) {
	productID := c.Param("productId")
	if favorite, ok := ask[bool](g, c, &actors.ToggleFavorite{ProductID: productID}); ok {
		c.JSON(http.StatusOK, gin.H{"productId": productID, "favorite": favorite})
	}
}

func (g *Gateway) getPreferences(c *gin.Context) {
	if prefs, ok := ask[models.UserPreferences](g, c, &actors.GetPreferences{}); ok {
		c.JSON(http.StatusOK, prefs)
	}
}

func (g *Gateway) updatePreferences(c *gin.Context) {
	var patch models.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	if prefs, ok := ask[models.UserPreferences](g, c, &actors.UpdatePreferences{Patch: patch}); ok {
		c.JSON(http.StatusOK, prefs)
	}
}
