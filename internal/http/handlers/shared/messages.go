package shared

import "fmt"

// messages 错误文案（key 与前端约定保持一致）
var messages = map[string]string{
	"error.bad_request":              "invalid request",
	"error.session_invalid":          "session is missing or invalid",
	"error.product_not_found":        "product not found",
	"error.variant_not_found":        "variant not found",
	"error.cart_fetch_failed":        "failed to load cart",
	"error.cart_update_failed":       "failed to update cart",
	"error.cart_empty":               "cart is empty",
	"error.checkout_not_started":     "checkout has not been started",
	"error.checkout_step_invalid":    "action is not allowed at the current checkout step",
	"error.checkout_order_in_flight": "order is already being placed",
	"error.checkout_completed":       "order has already been placed",
	"error.checkout_failed":          "checkout failed",
	"error.shipping_form_invalid":    "please fill in all required shipping fields",
	"error.order_not_found":          "order not found",
	"error.rate_limited":             "too many requests, please retry in %d seconds",
	"error.rate_limit_unavailable":   "rate limiter unavailable",
	"error.internal":                 "internal server error",
}

// Message 按 key 取文案，未登记的 key 原样返回
func Message(key string, args ...interface{}) string {
	text, ok := messages[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}
