package service

import (
	"github.com/shopspring/decimal"
)

const (
	// FreeShippingThreshold 免运费门槛（含）
	FreeShippingThreshold int64 = 500
	// FlatShippingFee 未达门槛时的固定运费
	FlatShippingFee int64 = 50
)

var subscriptionRate = decimal.RequireFromString("0.85")

// OrderSummary 金额汇总（整数卢比）
type OrderSummary struct {
	Subtotal              int64 `json:"subtotal"`
	Shipping              int64 `json:"shipping"`
	Total                 int64 `json:"total"`
	FreeShippingRemaining int64 `json:"free_shipping_remaining"`
}

// ShippingFee 计算运费
func ShippingFee(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// SummarizeTotals 根据小计计算运费与应付总额
func SummarizeTotals(subtotal int64) OrderSummary {
	shipping := ShippingFee(subtotal)
	remaining := int64(0)
	if subtotal < FreeShippingThreshold {
		remaining = FreeShippingThreshold - subtotal
	}
	return OrderSummary{
		Subtotal:              subtotal,
		Shipping:              shipping,
		Total:                 subtotal + shipping,
		FreeShippingRemaining: remaining,
	}
}

// SubscriptionPrice 订阅价：原价 85 折后四舍五入到整数卢比
func SubscriptionPrice(price int64) int64 {
	return decimal.NewFromInt(price).Mul(subscriptionRate).Round(0).IntPart()
}

// SubscriptionSavings 订阅相对原价节省的金额
func SubscriptionSavings(price int64) int64 {
	return price - SubscriptionPrice(price)
}
