package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lunapatch/storefront/internal/logger"
)

// AddProductInput 按商品加入购物车的输入
type AddProductInput struct {
	Slug      string `json:"slug"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Subscribe bool   `json:"subscribe"`
}

// DefaultSessionIdleTTL 会话对象在内存中的默认空闲保留时间
const DefaultSessionIdleTTL = 30 * time.Minute

const sessionSweepInterval = time.Minute

type openCart struct {
	store    *CartStore
	lastSeen time.Time
}

// CartService 购物车服务，每个浏览会话一个 CartStore
// 空闲超时的 CartStore 会被回收，再次访问时从存储恢复
type CartService struct {
	mu         sync.Mutex
	storage    CartStorage
	keyPrefix  string
	stores     map[string]*openCart
	productSvc *ProductService
	idleTTL    time.Duration
	now        func() time.Time
	lastSweep  time.Time
}

// NewCartService 创建购物车服务
func NewCartService(storage CartStorage, keyPrefix string, productSvc *ProductService) *CartService {
	if storage == nil {
		storage = NewMemoryCartStorage()
	}
	keyPrefix = strings.TrimSpace(keyPrefix)
	if keyPrefix == "" {
		keyPrefix = "lunapatch-cart"
	}
	return &CartService{
		storage:    storage,
		keyPrefix:  keyPrefix,
		stores:     make(map[string]*openCart),
		productSvc: productSvc,
		idleTTL:    DefaultSessionIdleTTL,
		now:        time.Now,
	}
}

// SetIdleTTL 设置空闲回收时间，ttl <= 0 时不回收
func (s *CartService) SetIdleTTL(ttl time.Duration, now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idleTTL = ttl
	if now != nil {
		s.now = now
	}
}

// StorageKey 会话对应的持久化键
func (s *CartService) StorageKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, sessionID)
}

// Cart 获取会话购物车，首次访问时从存储恢复
func (s *CartService) Cart(ctx context.Context, sessionID string) (*CartStore, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	if entry, ok := s.stores[sessionID]; ok {
		entry.lastSeen = now
		return entry.store, nil
	}
	store := OpenCartStore(ctx, s.storage, s.StorageKey(sessionID))
	s.stores[sessionID] = &openCart{store: store, lastSeen: now}
	return store, nil
}

// Touch 刷新会话购物车的最近访问时间（未打开时不处理）
func (s *CartService) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.stores[strings.TrimSpace(sessionID)]; ok {
		entry.lastSeen = s.now()
	}
}

// OpenStores 当前驻留内存的购物车数量
func (s *CartService) OpenStores() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// sweepLocked 回收空闲购物车；每次变更都已同步落盘，回收后重新打开不会丢数据
func (s *CartService) sweepLocked(now time.Time) {
	if s.idleTTL <= 0 || now.Sub(s.lastSweep) < sessionSweepInterval {
		return
	}
	s.lastSweep = now
	evicted := 0
	for sessionID, entry := range s.stores {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.stores, sessionID)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Debugw("cart_stores_evicted", "count", evicted, "remaining", len(s.stores))
	}
}

// AddProduct 按商品页逻辑加入购物车：快照标题、规格、首图与系列，订阅时使用订阅价
func (s *CartService) AddProduct(ctx context.Context, sessionID string, input AddProductInput) (*CartStore, error) {
	if s.productSvc == nil {
		return nil, ErrNotFound
	}
	store, err := s.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	product, err := s.productSvc.GetBySlug(input.Slug)
	if err != nil {
		return nil, err
	}
	variant, ok := product.FirstVariant()
	if variantID := strings.TrimSpace(input.VariantID); variantID != "" {
		variant, ok = product.FindVariant(variantID)
	}
	if !ok {
		return nil, ErrVariantNotFound
	}
	price := variant.Price
	if input.Subscribe {
		price = SubscriptionPrice(price)
	}
	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}
	store.AddItem(ctx, AddCartItemInput{
		ProductID:    product.ID,
		VariantID:    variant.ID,
		ProductTitle: product.Title,
		VariantName:  variant.Name,
		Price:        price,
		Quantity:     quantity,
		Image:        product.PrimaryImage(),
		Series:       product.Series,
	})
	logger.Debugw("cart_item_added",
		"session_id", sessionID,
		"product_id", product.ID,
		"variant_id", variant.ID,
		"quantity", quantity,
		"subscribe", input.Subscribe,
	)
	return store, nil
}
