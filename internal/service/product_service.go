package service

import (
	"sort"
	"strings"

	"github.com/lunapatch/storefront/internal/catalog"
	"github.com/lunapatch/storefront/internal/constants"
	"github.com/lunapatch/storefront/internal/models"
)

// CatalogQuery 商品列表查询条件
type CatalogQuery struct {
	Series string `json:"series"`
	Sort   string `json:"sort"`
}

// ParseCatalogQuery 解析查询参数，缺省为全部系列与推荐排序
func ParseCatalogQuery(series, sortKey string) CatalogQuery {
	query := CatalogQuery{
		Series: strings.TrimSpace(series),
		Sort:   strings.TrimSpace(sortKey),
	}
	if query.Series == "" {
		query.Series = constants.SeriesAll
	}
	if query.Sort == "" {
		query.Sort = constants.SortFeatured
	}
	return query
}

// QueryProducts 按系列筛选并排序，返回新切片，不修改入参
func QueryProducts(products []models.Product, series, sortKey string) []models.Product {
	result := make([]models.Product, 0, len(products))
	for _, product := range products {
		if series != constants.SeriesAll && product.Series != series {
			continue
		}
		result = append(result, product)
	}

	switch sortKey {
	case constants.SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool {
			return listPrice(result[i]) < listPrice(result[j])
		})
	case constants.SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool {
			return listPrice(result[i]) > listPrice(result[j])
		})
	case constants.SortRating:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Rating > result[j].Rating
		})
	default:
		// 未知排序键按推荐排序处理
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Featured && !result[j].Featured
		})
	}
	return result
}

// listPrice 列表价取首个规格价格
func listPrice(product models.Product) int64 {
	variant, ok := product.FirstVariant()
	if !ok {
		return 0
	}
	return variant.Price
}

// ProductService 商品目录服务
type ProductService struct {
	provider catalog.Provider
}

// NewProductService 创建商品服务
func NewProductService(provider catalog.Provider) *ProductService {
	return &ProductService{provider: provider}
}

// List 查询商品列表
func (s *ProductService) List(query CatalogQuery) []models.Product {
	query = ParseCatalogQuery(query.Series, query.Sort)
	return QueryProducts(s.provider.Products(), query.Series, query.Sort)
}

// GetBySlug 按 slug 获取商品
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}
	for _, product := range s.provider.Products() {
		if product.Slug == slug {
			found := product
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// Related 同系列的其他商品，按目录顺序截取
func (s *ProductService) Related(product *models.Product, limit int) []models.Product {
	if product == nil {
		return []models.Product{}
	}
	if limit <= 0 {
		limit = constants.RelatedProductsLimit
	}
	related := make([]models.Product, 0, limit)
	for _, candidate := range s.provider.Products() {
		if len(related) >= limit {
			break
		}
		if candidate.Series != product.Series || candidate.ID == product.ID {
			continue
		}
		related = append(related, candidate)
	}
	return related
}

// Featured 首页推荐商品
func (s *ProductService) Featured() []models.Product {
	featured := make([]models.Product, 0)
	for _, product := range s.provider.Products() {
		if product.Featured {
			featured = append(featured, product)
		}
	}
	return featured
}

// Series 可筛选的系列（首项为全部）
func (s *ProductService) Series() []string {
	return []string{
		constants.SeriesAll,
		constants.SeriesSleep,
		constants.SeriesFocus,
		constants.SeriesMood,
		constants.SeriesCollection,
	}
}
