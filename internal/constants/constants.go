package constants

// 商品系列常量
const (
	SeriesAll        = "all"
	SeriesSleep      = "Sleep"
	SeriesFocus      = "Focus"
	SeriesMood       = "Mood"
	SeriesCollection = "Collection"
)

// 商品列表排序常量
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// 结账步骤常量
const (
	CheckoutStepShippingInfo = "shipping_info"
	CheckoutStepPayment      = "payment"
	CheckoutStepSubmitting   = "submitting"
	CheckoutStepCompleted    = "completed"
)

// 购物车持久化后端常量
const (
	CartStorageMemory   = "memory"
	CartStorageRedis    = "redis"
	CartStorageDatabase = "database"
)

// 商品目录来源常量
const (
	CatalogSourceFile     = "file"
	CatalogSourceDatabase = "database"
)

// 订单相关常量
const (
	OrderNoPrefix         = "LP"
	OrderNoDigits         = 8
	ProductTagBestseller  = "bestseller"
	RelatedProductsLimit  = 4
	EventTypeOrderPlaced  = "order.placed"
	CartRedirectPath      = "/cart"
	OrderConfirmationPath = "/order-confirmation/"
)

// 队列与任务常量
const (
	QueueDefault          = "default"
	QueueCritical         = "critical"
	TaskOrderConfirmation = "order:confirmation"
)
