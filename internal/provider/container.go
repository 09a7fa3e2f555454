package provider

import (
	"fmt"
	"time"

	"github.com/lunapatch/storefront/internal/cache"
	"github.com/lunapatch/storefront/internal/catalog"
	"github.com/lunapatch/storefront/internal/config"
	"github.com/lunapatch/storefront/internal/constants"
	"github.com/lunapatch/storefront/internal/events"
	"github.com/lunapatch/storefront/internal/logger"
	"github.com/lunapatch/storefront/internal/models"
	"github.com/lunapatch/storefront/internal/queue"
	"github.com/lunapatch/storefront/internal/repository"
	"github.com/lunapatch/storefront/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	EventPublisher events.Publisher
	Catalog        catalog.Provider

	// Repositories
	ProductRepo repository.ProductRepository
	KVRepo      repository.KVRepository

	// Services
	ProductService           *service.ProductService
	CartService              *service.CartService
	CheckoutService          *service.CheckoutService
	OrderConfirmationService *service.OrderConfirmationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	publisher, err := events.NewPublisher(&cfg.Events)
	if err != nil {
		logger.Errorw("provider_init_event_publisher_failed", "error", err)
		publisher = events.NopPublisher{}
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		EventPublisher: publisher,
	}

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 加载商品目录
	if err := c.initCatalog(); err != nil {
		return nil, err
	}

	// 3. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories(db *gorm.DB) {
	if db == nil {
		return
	}
	c.ProductRepo = repository.NewProductRepository(db)
	c.KVRepo = repository.NewKVRepository(db)
}

func (c *Container) initCatalog() error {
	switch c.Config.Catalog.Source {
	case constants.CatalogSourceDatabase:
		if c.ProductRepo == nil {
			return fmt.Errorf("catalog source %q requires a database", c.Config.Catalog.Source)
		}
		provider, err := catalog.NewDatabaseProvider(c.ProductRepo)
		if err != nil {
			return err
		}
		c.Catalog = provider
	default:
		provider, err := catalog.NewFileProvider(c.Config.Catalog.Path)
		if err != nil {
			return err
		}
		c.Catalog = provider
	}
	logger.Infow("provider_catalog_loaded", "source", c.Config.Catalog.Source, "products", len(c.Catalog.Products()))
	return nil
}

func (c *Container) initServices() error {
	storage, err := c.cartStorage()
	if err != nil {
		return err
	}
	c.ProductService = service.NewProductService(c.Catalog)
	idleTTL := time.Duration(c.Config.Session.IdleTTLMinutes) * time.Minute
	confirmationTTL := time.Duration(c.Config.Checkout.ConfirmationTTLMinutes) * time.Minute
	c.CartService = service.NewCartService(storage, c.Config.Cart.StorageKey, c.ProductService)
	if idleTTL != 0 {
		c.CartService.SetIdleTTL(idleTTL, nil)
	}
	c.OrderConfirmationService = service.NewOrderConfirmationService(
		c.QueueClient,
		c.EventPublisher,
		confirmationTTL,
	)
	c.CheckoutService = service.NewCheckoutService(c.CartService, c.OrderConfirmationService, service.CheckoutServiceOptions{
		PlaceOrderDelay:       time.Duration(c.Config.Checkout.PlaceOrderDelayMS) * time.Millisecond,
		IdleTTL:               idleTTL,
		ConfirmationRetention: confirmationTTL,
	})
	return nil
}

func (c *Container) cartStorage() (service.CartStorage, error) {
	switch c.Config.Cart.Storage {
	case constants.CartStorageRedis:
		storage, err := cache.NewBlobStorage()
		if err != nil {
			logger.Warnw("provider_cart_storage_fallback_memory", "storage", c.Config.Cart.Storage, "error", err)
			return service.NewMemoryCartStorage(), nil
		}
		return storage, nil
	case constants.CartStorageDatabase:
		if c.KVRepo == nil {
			return nil, fmt.Errorf("cart storage %q requires a database", c.Config.Cart.Storage)
		}
		return service.NewKVCartStorage(c.KVRepo), nil
	case constants.CartStorageMemory:
		return service.NewMemoryCartStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported cart storage: %s", c.Config.Cart.Storage)
	}
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
