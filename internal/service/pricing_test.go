package service

import "testing"

func TestShippingFeeThreshold(t *testing.T) {
	cases := []struct {
		subtotal int64
		want     int64
	}{
		{0, 50},
		{420, 50},
		{499, 50},
		{500, 0},
		{748, 0},
	}
	for _, tc := range cases {
		if got := ShippingFee(tc.subtotal); got != tc.want {
			t.Fatalf("subtotal %d: want shipping %d got %d", tc.subtotal, tc.want, got)
		}
	}
}

func TestSummarizeTotalsScenario420(t *testing.T) {
	summary := SummarizeTotals(420)
	if summary.Shipping != 50 || summary.Total != 470 || summary.FreeShippingRemaining != 80 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	free := SummarizeTotals(500)
	if free.Shipping != 0 || free.Total != 500 || free.FreeShippingRemaining != 0 {
		t.Fatalf("unexpected summary at threshold: %+v", free)
	}
}

func TestSubscriptionPriceRounding(t *testing.T) {
	cases := map[int64]int64{
		299:  254, // 254.15
		249:  212, // 211.65
		100:  85,
		330:  281, // 280.5 rounds up
		1699: 1444,
	}
	for price, want := range cases {
		if got := SubscriptionPrice(price); got != want {
			t.Fatalf("price %d: want %d got %d", price, want, got)
		}
		if savings := SubscriptionSavings(price); savings != price-want {
			t.Fatalf("price %d: unexpected savings %d", price, savings)
		}
	}
}
