package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lunapatch/storefront/internal/constants"
)

// ShippingForm 收货与联系信息，全部必填
type ShippingForm struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone"`
}

// MissingFields 返回缺失字段（仅空白视为缺失）
func (f ShippingForm) MissingFields() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"email", f.Email},
		{"first_name", f.FirstName},
		{"last_name", f.LastName},
		{"address", f.Address},
		{"city", f.City},
		{"state", f.State},
		{"pincode", f.Pincode},
		{"phone", f.Phone},
	}
	missing := make([]string, 0)
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// OrderCustomer 确认页展示的顾客信息
type OrderCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
	State string `json:"state"`
}

// OrderConfirmation 下单结果快照（仅输出，不落库）
type OrderConfirmation struct {
	OrderNo      string        `json:"order_no"`
	Items        []LineItem    `json:"items"`
	TotalItems   int           `json:"total_items"`
	Summary      OrderSummary  `json:"summary"`
	Customer     OrderCustomer `json:"customer"`
	PlacedAt     time.Time     `json:"placed_at"`
	RedirectPath string        `json:"redirect_path"`
}

// CheckoutOptions 结账会话参数
type CheckoutOptions struct {
	Delay    time.Duration
	OrderNos *OrderNoGenerator
	Now      func() time.Time
	Wait     func(time.Duration)
}

// CheckoutSession 两步结账状态机：shipping_info -> payment -> submitting -> completed
type CheckoutSession struct {
	mu           sync.Mutex
	step         string
	form         ShippingForm
	cart         *CartStore
	delay        time.Duration
	orderNos     *OrderNoGenerator
	now          func() time.Time
	wait         func(time.Duration)
	confirmation *OrderConfirmation
}

// BeginCheckout 进入结账；购物车为空时返回 ErrCartEmpty（前端跳回购物车）
func BeginCheckout(cart *CartStore, opts CheckoutOptions) (*CheckoutSession, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrCartEmpty
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OrderNos == nil {
		opts.OrderNos = NewOrderNoGenerator(opts.Now)
	}
	if opts.Wait == nil {
		opts.Wait = time.Sleep
	}
	return &CheckoutSession{
		step:     constants.CheckoutStepShippingInfo,
		cart:     cart,
		delay:    opts.Delay,
		orderNos: opts.OrderNos,
		now:      opts.Now,
		wait:     opts.Wait,
	}, nil
}

// Step 当前步骤
func (s *CheckoutSession) Step() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Form 已提交的收货信息
func (s *CheckoutSession) Form() ShippingForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Confirmation 完成后的订单确认，未完成时为 nil
func (s *CheckoutSession) Confirmation() *OrderConfirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmation
}

// Summary 基于当前购物车的金额汇总
func (s *CheckoutSession) Summary() CartSummary {
	return s.cart.Summary()
}

// SubmitShipping 提交收货信息并进入支付步骤
func (s *CheckoutSession) SubmitShipping(form ShippingForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != constants.CheckoutStepShippingInfo {
		return ErrCheckoutStepInvalid
	}
	if missing := form.MissingFields(); len(missing) > 0 {
		return &ShippingFormError{Missing: missing}
	}
	s.form = form
	s.step = constants.CheckoutStepPayment
	return nil
}

// Back 从支付步骤返回收货信息步骤，保留已填表单
func (s *CheckoutSession) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == constants.CheckoutStepPayment {
		s.step = constants.CheckoutStepShippingInfo
	}
}

// PlaceOrder 下单：模拟处理延迟后生成订单号、清空购物车并完成结账
// 同一会话同时只允许一个下单请求；开始后不可取消
func (s *CheckoutSession) PlaceOrder(ctx context.Context) (*OrderConfirmation, error) {
	s.mu.Lock()
	switch s.step {
	case constants.CheckoutStepPayment:
	case constants.CheckoutStepSubmitting:
		s.mu.Unlock()
		return nil, ErrOrderInFlight
	case constants.CheckoutStepCompleted:
		s.mu.Unlock()
		return nil, ErrCheckoutCompleted
	default:
		s.mu.Unlock()
		return nil, ErrCheckoutStepInvalid
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, ErrCartEmpty
	}
	s.step = constants.CheckoutStepSubmitting
	form := s.form
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	if s.delay > 0 {
		s.wait(s.delay)
	}

	orderNo := s.orderNos.Next()
	items := s.cart.Drain(ctx)
	snapshot := summarizeItems(items)
	confirmation := &OrderConfirmation{
		OrderNo:    orderNo,
		Items:      snapshot.Items,
		TotalItems: snapshot.TotalItems,
		Summary:    snapshot.OrderSummary,
		Customer: OrderCustomer{
			Name:  strings.TrimSpace(form.FirstName + " " + form.LastName),
			Email: strings.TrimSpace(form.Email),
			City:  strings.TrimSpace(form.City),
			State: strings.TrimSpace(form.State),
		},
		PlacedAt:     s.now(),
		RedirectPath: constants.OrderConfirmationPath + orderNo,
	}

	s.mu.Lock()
	s.step = constants.CheckoutStepCompleted
	s.confirmation = confirmation
	s.mu.Unlock()
	return confirmation, nil
}
