package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lunapatch/storefront/internal/cache"
	"github.com/lunapatch/storefront/internal/config"
	publichandlers "github.com/lunapatch/storefront/internal/http/handlers/public"
	"github.com/lunapatch/storefront/internal/http/response"
	"github.com/lunapatch/storefront/internal/logger"
	"github.com/lunapatch/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lp"
	}
	placeOrderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:place_order", redisPrefix),
		WindowSeconds: cfg.Security.PlaceOrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.PlaceOrderRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(SessionMiddleware(cfg.Session))
	r.Use(LoggerMiddleware(log))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 商品目录
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/featured", publicHandler.GetFeaturedProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
		}

		// 购物车
		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", publicHandler.ClearCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/:product_id/:variant_id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id/:variant_id", publicHandler.RemoveCartItem)
		}

		// 结账
		checkout := apiV1.Group("/checkout")
		{
			checkout.POST("", publicHandler.EnterCheckout)
			checkout.GET("", publicHandler.GetCheckout)
			checkout.DELETE("", publicHandler.LeaveCheckout)
			checkout.POST("/shipping", publicHandler.SubmitShipping)
			checkout.POST("/back", publicHandler.CheckoutBack)
			checkout.POST("/place-order", RateLimitMiddleware(cache.Client(), placeOrderRule, KeyBySession), publicHandler.PlaceOrder)
		}

		apiV1.GET("/orders/:order_no/confirmation", publicHandler.GetOrderConfirmation)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "redis": "disabled"}
		if cache.Enabled() {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cache.Ping(ctx); err != nil {
				status["redis"] = "unavailable"
			} else {
				status["redis"] = "ok"
			}
		}
		c.JSON(http.StatusOK, status)
	})

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found")
	})

	return r
}
