package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lunapatch/storefront/internal/constants"
	"github.com/lunapatch/storefront/internal/logger"
)

// DefaultConfirmationRetention 已完成订单确认在内存中的默认保留时间
const DefaultConfirmationRetention = 24 * time.Hour

// CheckoutServiceOptions 结账服务参数
// IdleTTL 与 ConfirmationRetention 为 0 时取默认值，小于 0 时不回收
type CheckoutServiceOptions struct {
	PlaceOrderDelay       time.Duration
	OrderNos              *OrderNoGenerator
	Now                   func() time.Time
	Wait                  func(time.Duration)
	IdleTTL               time.Duration
	ConfirmationRetention time.Duration
}

type completedOrder struct {
	sessionID    string
	confirmation *OrderConfirmation
	completedAt  time.Time
}

// CheckoutService 结账服务，每个浏览会话最多一个进行中的结账（仅内存）
// 已完成的订单确认按订单号单独保存，重新进入结账不会影响
type CheckoutService struct {
	mu            sync.Mutex
	carts         *CartService
	confirmations *OrderConfirmationService
	sessions      map[string]*CheckoutSession
	touched       map[string]time.Time
	completed     map[string]completedOrder
	opts          CheckoutOptions
	idleTTL       time.Duration
	retention     time.Duration
	lastSweep     time.Time
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(carts *CartService, confirmations *OrderConfirmationService, options CheckoutServiceOptions) *CheckoutService {
	now := options.Now
	if now == nil {
		now = time.Now
	}
	orderNos := options.OrderNos
	if orderNos == nil {
		orderNos = NewOrderNoGenerator(now)
	}
	return &CheckoutService{
		carts:         carts,
		confirmations: confirmations,
		sessions:      make(map[string]*CheckoutSession),
		touched:       make(map[string]time.Time),
		completed:     make(map[string]completedOrder),
		idleTTL:       durationOrDefault(options.IdleTTL, DefaultSessionIdleTTL),
		retention:     durationOrDefault(options.ConfirmationRetention, DefaultConfirmationRetention),
		opts: CheckoutOptions{
			Delay:    options.PlaceOrderDelay,
			OrderNos: orderNos,
			Now:      now,
			Wait:     options.Wait,
		},
	}
}

func durationOrDefault(value, fallback time.Duration) time.Duration {
	if value == 0 {
		return fallback
	}
	return value
}

// Enter 进入结账页；正在下单时返回现有会话，其余情况重新开始（表单清空）
func (s *CheckoutService) Enter(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	cart, err := s.carts.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.opts.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	if existing, ok := s.sessions[sessionID]; ok && existing.Step() == constants.CheckoutStepSubmitting {
		s.touched[sessionID] = now
		return existing, nil
	}
	session, err := BeginCheckout(cart, s.opts)
	if err != nil {
		s.dropLocked(sessionID)
		return nil, err
	}
	s.sessions[sessionID] = session
	s.touched[sessionID] = now
	return session, nil
}

// Current 获取当前结账会话，空闲超时的会话视为未开始
func (s *CheckoutService) Current(sessionID string) (*CheckoutSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	now := s.opts.Now()
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok && s.idleLocked(sessionID, session, now) {
		s.dropLocked(sessionID)
		ok = false
	}
	if ok {
		s.touched[sessionID] = now
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrCheckoutNotStarted
	}
	s.carts.Touch(sessionID)
	return session, nil
}

// Sessions 当前驻留内存的结账会话数量
func (s *CheckoutService) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *CheckoutService) idleLocked(sessionID string, session *CheckoutSession, now time.Time) bool {
	if s.idleTTL <= 0 || session.Step() == constants.CheckoutStepSubmitting {
		return false
	}
	return now.Sub(s.touched[sessionID]) > s.idleTTL
}

func (s *CheckoutService) dropLocked(sessionID string) {
	delete(s.sessions, sessionID)
	delete(s.touched, sessionID)
}

// sweepLocked 回收空闲结账会话与过期的订单确认；下单中的会话不回收
func (s *CheckoutService) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sessionSweepInterval {
		return
	}
	s.lastSweep = now
	for sessionID, session := range s.sessions {
		if s.idleLocked(sessionID, session, now) {
			s.dropLocked(sessionID)
		}
	}
	if s.retention > 0 {
		for orderNo, order := range s.completed {
			if now.Sub(order.completedAt) > s.retention {
				delete(s.completed, orderNo)
			}
		}
	}
}

// SubmitShipping 提交收货信息
func (s *CheckoutService) SubmitShipping(sessionID string, form ShippingForm) (*CheckoutSession, error) {
	session, err := s.Current(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.SubmitShipping(form); err != nil {
		return nil, err
	}
	return session, nil
}

// Back 返回收货信息步骤
func (s *CheckoutService) Back(sessionID string) (*CheckoutSession, error) {
	session, err := s.Current(sessionID)
	if err != nil {
		return nil, err
	}
	session.Back()
	return session, nil
}

// PlaceOrder 下单并分发订单确认；分发失败只记录日志
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string) (*OrderConfirmation, error) {
	session, err := s.Current(sessionID)
	if err != nil {
		return nil, err
	}
	confirmation, err := session.PlaceOrder(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.completed[confirmation.OrderNo] = completedOrder{
		sessionID:    sessionID,
		confirmation: confirmation,
		completedAt:  s.opts.Now(),
	}
	s.mu.Unlock()
	logger.Infow("checkout_order_placed",
		"session_id", sessionID,
		"order_no", confirmation.OrderNo,
		"total_items", confirmation.TotalItems,
		"total", confirmation.Summary.Total,
	)
	if s.confirmations != nil {
		if err := s.confirmations.Dispatch(context.WithoutCancel(ctx), confirmation); err != nil {
			logger.Warnw("checkout_confirmation_dispatch_failed", "order_no", confirmation.OrderNo, "error", err)
		}
	}
	return confirmation, nil
}

// Leave 离开结账页，丢弃会话（下单进行中时保留）
func (s *CheckoutService) Leave(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok && session.Step() == constants.CheckoutStepSubmitting {
		return
	}
	s.dropLocked(sessionID)
}

// Confirmation 读取订单确认：优先缓存，其次本进程内该会话完成的订单
func (s *CheckoutService) Confirmation(ctx context.Context, sessionID, orderNo string) (*OrderConfirmation, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrNotFound
	}
	if s.confirmations != nil {
		confirmation, ok, err := s.confirmations.Get(ctx, orderNo)
		if err != nil {
			logger.Warnw("order_confirmation_cache_read_failed", "order_no", orderNo, "error", err)
		} else if ok {
			return confirmation, nil
		}
	}
	s.mu.Lock()
	order, ok := s.completed[orderNo]
	s.mu.Unlock()
	if !ok || order.sessionID != sessionID {
		return nil, ErrNotFound
	}
	if s.retention > 0 && s.opts.Now().Sub(order.completedAt) > s.retention {
		return nil, ErrNotFound
	}
	return order.confirmation, nil
}
