package public

import (
	"errors"

	"github.com/lunapatch/storefront/internal/constants"
	"github.com/lunapatch/storefront/internal/http/response"
	"github.com/lunapatch/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	var formErr *service.ShippingFormError
	if errors.As(err, &formErr) {
		respondErrorWithData(c, response.CodeUnprocessable, "error.shipping_form_invalid", gin.H{
			"missing": formErr.Missing,
		}, nil)
		return
	}
	if errors.Is(err, service.ErrCartEmpty) {
		// 购物车为空时提示前端回到购物车
		respondErrorWithData(c, response.CodeBadRequest, "error.cart_empty", gin.H{
			"redirect": constants.CartRedirectPath,
		}, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var sessionErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidSession, code: response.CodeBadRequest, key: "error.session_invalid"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, key: "error.variant_not_found"},
}

var cartErrorRules = concatMappedHandlerErrors(sessionErrorRules, productErrorRules)

var checkoutErrorRules = concatMappedHandlerErrors(sessionErrorRules, []mappedHandlerError{
	{target: service.ErrCheckoutNotStarted, code: response.CodeNotFound, key: "error.checkout_not_started"},
	{target: service.ErrCheckoutStepInvalid, code: response.CodeConflict, key: "error.checkout_step_invalid"},
	{target: service.ErrOrderInFlight, code: response.CodeConflict, key: "error.checkout_order_in_flight"},
	{target: service.ErrCheckoutCompleted, code: response.CodeConflict, key: "error.checkout_completed"},
})

var confirmationErrorRules = concatMappedHandlerErrors(sessionErrorRules, []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
})
