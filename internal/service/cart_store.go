package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/lunapatch/storefront/internal/logger"
	"github.com/lunapatch/storefront/internal/repository"
)

// LineItem 购物车行项目，价格与图片为加入时的快照
type LineItem struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id"`
	ProductTitle string `json:"product_title"`
	VariantName  string `json:"variant_name"`
	Price        int64  `json:"price"`
	Quantity     int    `json:"quantity"`
	Image        string `json:"image"`
	Series       string `json:"series"`
}

// AddCartItemInput 加入购物车输入，Quantity 缺省为 1
type AddCartItemInput struct {
	ProductID    string
	VariantID    string
	ProductTitle string
	VariantName  string
	Price        int64
	Quantity     int
	Image        string
	Series       string
}

// CartSummary 购物车汇总
type CartSummary struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"total_items"`
	OrderSummary
}

// CartStorage 购物车整块持久化后端
type CartStorage interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, blob []byte) error
}

type cartSnapshot struct {
	Items []LineItem `json:"items"`
}

// CartStore 单个会话的购物车
type CartStore struct {
	mu      sync.Mutex
	key     string
	storage CartStorage
	items   []LineItem
}

// OpenCartStore 打开购物车并从存储恢复；存储缺失或损坏时得到空购物车
func OpenCartStore(ctx context.Context, storage CartStorage, key string) *CartStore {
	if storage == nil {
		storage = NewMemoryCartStorage()
	}
	store := &CartStore{
		key:     key,
		storage: storage,
		items:   []LineItem{},
	}
	blob, ok, err := storage.Load(ctx, key)
	if err != nil {
		logger.Warnw("cart_rehydrate_failed", "key", key, "error", err)
		return store
	}
	if !ok || len(blob) == 0 {
		return store
	}
	var snapshot cartSnapshot
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		logger.Warnw("cart_rehydrate_malformed", "key", key, "error", err)
		return store
	}
	for _, item := range snapshot.Items {
		if item.ProductID == "" || item.VariantID == "" || item.Quantity <= 0 {
			logger.Warnw("cart_rehydrate_drop_item", "key", key, "product_id", item.ProductID, "variant_id", item.VariantID, "quantity", item.Quantity)
			continue
		}
		if store.indexOf(item.ProductID, item.VariantID) >= 0 {
			continue
		}
		store.items = append(store.items, item)
	}
	return store
}

// Key 持久化键
func (s *CartStore) Key() string {
	return s.key
}

// AddItem 加入商品；已存在同一规格时累加数量且不更新快照
// 标识为空或价格为负时忽略该调用（不报错）
func (s *CartStore) AddItem(ctx context.Context, input AddCartItemInput) {
	productID := strings.TrimSpace(input.ProductID)
	variantID := strings.TrimSpace(input.VariantID)
	if productID == "" || variantID == "" || input.Price < 0 {
		logger.Warnw("cart_add_item_ignored", "key", s.key, "product_id", productID, "variant_id", variantID, "price", input.Price)
		return
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(productID, variantID); idx >= 0 {
		s.items[idx].Quantity += quantity
	} else {
		s.items = append(s.items, LineItem{
			ProductID:    productID,
			VariantID:    variantID,
			ProductTitle: input.ProductTitle,
			VariantName:  input.VariantName,
			Price:        input.Price,
			Quantity:     quantity,
			Image:        input.Image,
			Series:       input.Series,
		})
	}
	s.persist(ctx)
}

// RemoveItem 移除行项目，不存在时不做任何处理
func (s *CartStore) RemoveItem(ctx context.Context, productID, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, productID, variantID)
}

// UpdateQuantity 覆盖数量；数量小于等于 0 时等同移除
func (s *CartStore) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity <= 0 {
		s.removeLocked(ctx, productID, variantID)
		return
	}
	idx := s.indexOf(productID, variantID)
	if idx < 0 {
		return
	}
	s.items[idx].Quantity = quantity
	s.persist(ctx)
}

// Clear 清空购物车
func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []LineItem{}
	s.persist(ctx)
}

// Drain 原子地取出全部行项目并清空购物车
func (s *CartStore) Drain(ctx context.Context) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items
	s.items = []LineItem{}
	s.persist(ctx)
	return items
}

// Items 行项目副本（按加入顺序）
func (s *CartStore) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem{}, s.items...)
}

// TotalItems 商品总件数
func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// TotalPrice 小计
func (s *CartStore) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// IsEmpty 是否为空
func (s *CartStore) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Summary 行项目与金额汇总的一致快照
func (s *CartStore) Summary() CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarizeItems(append([]LineItem{}, s.items...))
}

func summarizeItems(items []LineItem) CartSummary {
	return CartSummary{
		Items:        items,
		TotalItems:   totalItems(items),
		OrderSummary: SummarizeTotals(totalPrice(items)),
	}
}

func (s *CartStore) removeLocked(ctx context.Context, productID, variantID string) {
	idx := s.indexOf(productID, variantID)
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persist(ctx)
}

func (s *CartStore) indexOf(productID, variantID string) int {
	for i, item := range s.items {
		if item.ProductID == productID && item.VariantID == variantID {
			return i
		}
	}
	return -1
}

// persist 写入存储；失败只记录日志，内存状态仍然有效
func (s *CartStore) persist(ctx context.Context) {
	blob, err := json.Marshal(cartSnapshot{Items: s.items})
	if err != nil {
		logger.Errorw("cart_persist_marshal_failed", "key", s.key, "error", err)
		return
	}
	if err := s.storage.Save(context.WithoutCancel(ctx), s.key, blob); err != nil {
		logger.Warnw("cart_persist_failed", "key", s.key, "error", err)
	}
}

func totalItems(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func totalPrice(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// MemoryCartStorage 进程内存储（进程重启后丢失）
type MemoryCartStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryCartStorage 创建内存存储
func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{blobs: make(map[string][]byte)}
}

// Load 读取
func (m *MemoryCartStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

// Save 写入
func (m *MemoryCartStorage) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}

// KVCartStorage 基于数据库键值表的存储
type KVCartStorage struct {
	repo repository.KVRepository
}

// NewKVCartStorage 创建数据库存储
func NewKVCartStorage(repo repository.KVRepository) *KVCartStorage {
	return &KVCartStorage{repo: repo}
}

// Load 读取
func (k *KVCartStorage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	return k.repo.Get(ctx, key)
}

// Save 写入
func (k *KVCartStorage) Save(ctx context.Context, key string, blob []byte) error {
	return k.repo.Put(ctx, key, blob)
}
