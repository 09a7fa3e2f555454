package public

import (
	"strconv"

	"github.com/lunapatch/storefront/internal/http/response"
	"github.com/lunapatch/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	Slug      string `json:"slug" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Subscribe bool   `json:"subscribe"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Cart(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, cart.Summary())
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cart, err := h.CartService.AddProduct(c.Request.Context(), sessionID, service.AddProductInput{
		Slug:      req.Slug,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Subscribe: req.Subscribe,
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, cart.Summary())
}

// UpdateCartItem 修改数量（小于等于 0 视为移除）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 兼容 ?quantity= 形式
		quantity, convErr := strconv.Atoi(c.Query("quantity"))
		if convErr != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		req.Quantity = &quantity
	}
	cart, err := h.CartService.Cart(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	cart.UpdateQuantity(c.Request.Context(), c.Param("product_id"), c.Param("variant_id"), *req.Quantity)
	response.Success(c, cart.Summary())
}

// RemoveCartItem 移除行项目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Cart(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	cart.RemoveItem(c.Request.Context(), c.Param("product_id"), c.Param("variant_id"))
	response.Success(c, cart.Summary())
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Cart(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	cart.Clear(c.Request.Context())
	response.Success(c, cart.Summary())
}
