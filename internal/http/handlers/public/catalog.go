package public

import (
	"github.com/lunapatch/storefront/internal/constants"
	"github.com/lunapatch/storefront/internal/http/response"
	"github.com/lunapatch/storefront/internal/models"
	"github.com/lunapatch/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicProductView 公共商品响应结构
type PublicProductView struct {
	models.Product
	ListPrice           int64 `json:"list_price"`
	SubscriptionPrice   int64 `json:"subscription_price"`
	SubscriptionSavings int64 `json:"subscription_savings"`
	Bestseller          bool  `json:"bestseller"`
}

func buildPublicProductView(product models.Product) PublicProductView {
	view := PublicProductView{Product: product}
	if variant, ok := product.FirstVariant(); ok {
		view.ListPrice = variant.Price
		view.SubscriptionPrice = service.SubscriptionPrice(variant.Price)
		view.SubscriptionSavings = service.SubscriptionSavings(variant.Price)
	}
	for _, tag := range product.Tags {
		if tag == constants.ProductTagBestseller {
			view.Bestseller = true
			break
		}
	}
	return view
}

func buildPublicProductViews(products []models.Product) []PublicProductView {
	views := make([]PublicProductView, 0, len(products))
	for _, product := range products {
		views = append(views, buildPublicProductView(product))
	}
	return views
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	query := service.ParseCatalogQuery(c.Query("series"), c.Query("sort"))
	products := h.ProductService.List(query)
	response.Success(c, gin.H{
		"items":  buildPublicProductViews(products),
		"total":  len(products),
		"query":  query,
		"series": h.ProductService.Series(),
	})
}

// GetFeaturedProducts 首页推荐商品
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	response.Success(c, buildPublicProductViews(h.ProductService.Featured()))
}

// GetProductBySlug 获取商品详情及同系列推荐
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	related := h.ProductService.Related(product, constants.RelatedProductsLimit)
	response.Success(c, gin.H{
		"product": buildPublicProductView(*product),
		"related": buildPublicProductViews(related),
	})
}
