package public

import (
	"github.com/lunapatch/storefront/internal/http/response"
	"github.com/lunapatch/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutView 结账页数据
type CheckoutView struct {
	Step    string               `json:"step"`
	Form    service.ShippingForm `json:"form"`
	Summary service.CartSummary  `json:"summary"`
}

func buildCheckoutView(session *service.CheckoutSession) CheckoutView {
	return CheckoutView{
		Step:    session.Step(),
		Form:    session.Form(),
		Summary: session.Summary(),
	}
}

// EnterCheckout 进入结账
func (h *Handler) EnterCheckout(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	session, err := h.CheckoutService.Enter(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
		return
	}
	response.Success(c, buildCheckoutView(session))
}

// GetCheckout 获取当前结账状态
func (h *Handler) GetCheckout(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	session, err := h.CheckoutService.Current(sessionID)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
		return
	}
	response.Success(c, buildCheckoutView(session))
}

// SubmitShipping 提交收货信息
func (h *Handler) SubmitShipping(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var form service.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	session, err := h.CheckoutService.SubmitShipping(sessionID, form)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
		return
	}
	response.Success(c, buildCheckoutView(session))
}

// CheckoutBack 返回收货信息步骤
func (h *Handler) CheckoutBack(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	session, err := h.CheckoutService.Back(sessionID)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
		return
	}
	response.Success(c, buildCheckoutView(session))
}

// PlaceOrder 下单
func (h *Handler) PlaceOrder(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	confirmation, err := h.CheckoutService.PlaceOrder(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
		return
	}
	response.Success(c, confirmation)
}

// LeaveCheckout 离开结账页
func (h *Handler) LeaveCheckout(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	h.CheckoutService.Leave(sessionID)
	response.Success(c, nil)
}

// GetOrderConfirmation 获取订单确认信息
func (h *Handler) GetOrderConfirmation(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	confirmation, err := h.CheckoutService.Confirmation(c.Request.Context(), sessionID, c.Param("order_no"))
	if err != nil {
		respondWithMappedError(c, err, confirmationErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, confirmation)
}
