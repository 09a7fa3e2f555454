package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lunapatch/storefront/internal/constants"
	"github.com/lunapatch/storefront/internal/models"
	"github.com/lunapatch/storefront/internal/repository"
)

//go:embed data/products.json
var defaultCatalog []byte

// ErrEmptyCatalog 目录为空
var ErrEmptyCatalog = errors.New("catalog is empty")

// Provider 商品目录来源（只读、有序）
type Provider interface {
	Products() []models.Product
}

// StaticProvider 内存中的固定目录
type StaticProvider struct {
	products []models.Product
}

// NewStaticProvider 校验并包装给定商品序列
func NewStaticProvider(products []models.Product) (*StaticProvider, error) {
	normalized := normalize(products)
	if err := Validate(normalized); err != nil {
		return nil, err
	}
	return &StaticProvider{products: normalized}, nil
}

// Products 返回目录副本，调用方修改不会影响目录本身
func (p *StaticProvider) Products() []models.Product {
	return cloneProducts(p.products)
}

// DefaultProducts 解析内置目录文件
func DefaultProducts() ([]models.Product, error) {
	return Decode(defaultCatalog)
}

// Decode 解析 JSON 目录
func Decode(raw []byte) ([]models.Product, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	var products []models.Product
	if err := decoder.Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return normalize(products), nil
}

// NewFileProvider 从文件加载目录，path 为空时使用内置目录
func NewFileProvider(path string) (*StaticProvider, error) {
	raw := defaultCatalog
	path = strings.TrimSpace(path)
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog file %s: %w", path, err)
		}
		raw = content
	}
	products, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return NewStaticProvider(products)
}

// NewDatabaseProvider 从数据库加载目录（进程启动时加载一次）
func NewDatabaseProvider(repo repository.ProductRepository) (*StaticProvider, error) {
	if repo == nil {
		return nil, errors.New("product repository is nil")
	}
	products, err := repo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("load catalog from database: %w", err)
	}
	return NewStaticProvider(products)
}

// Validate 校验目录不变量
func Validate(products []models.Product) error {
	if len(products) == 0 {
		return ErrEmptyCatalog
	}
	ids := make(map[string]struct{}, len(products))
	slugs := make(map[string]struct{}, len(products))
	for _, product := range products {
		if product.ID == "" {
			return fmt.Errorf("product %q: id is required", product.Slug)
		}
		if _, ok := ids[product.ID]; ok {
			return fmt.Errorf("product %s: duplicate id", product.ID)
		}
		ids[product.ID] = struct{}{}
		if product.Slug == "" {
			return fmt.Errorf("product %s: slug is required", product.ID)
		}
		if _, ok := slugs[product.Slug]; ok {
			return fmt.Errorf("product %s: duplicate slug %s", product.ID, product.Slug)
		}
		slugs[product.Slug] = struct{}{}
		if !isKnownSeries(product.Series) {
			return fmt.Errorf("product %s: unknown series %q", product.ID, product.Series)
		}
		if product.Rating < 0 || product.Rating > 5 {
			return fmt.Errorf("product %s: rating %.1f out of range", product.ID, product.Rating)
		}
		if product.ReviewsCount < 0 {
			return fmt.Errorf("product %s: negative reviews_count", product.ID)
		}
		if len(product.Variants) == 0 {
			return fmt.Errorf("product %s: variants must not be empty", product.ID)
		}
		variantIDs := make(map[string]struct{}, len(product.Variants))
		for _, variant := range product.Variants {
			if variant.ID == "" {
				return fmt.Errorf("product %s: variant id is required", product.ID)
			}
			if _, ok := variantIDs[variant.ID]; ok {
				return fmt.Errorf("product %s: duplicate variant %s", product.ID, variant.ID)
			}
			variantIDs[variant.ID] = struct{}{}
			if variant.Price <= 0 {
				return fmt.Errorf("product %s variant %s: price must be positive", product.ID, variant.ID)
			}
			if variant.Inventory < 0 {
				return fmt.Errorf("product %s variant %s: negative inventory", product.ID, variant.ID)
			}
		}
	}
	return nil
}

func isKnownSeries(series string) bool {
	switch series {
	case constants.SeriesSleep, constants.SeriesFocus, constants.SeriesMood, constants.SeriesCollection:
		return true
	}
	return false
}

// normalize 补齐目录顺序与规格归属
func normalize(products []models.Product) []models.Product {
	result := cloneProducts(products)
	for i := range result {
		result[i].Position = i
		for j := range result[i].Variants {
			result[i].Variants[j].ProductID = result[i].ID
			result[i].Variants[j].Position = j
		}
	}
	return result
}

func cloneProducts(products []models.Product) []models.Product {
	if products == nil {
		return nil
	}
	result := make([]models.Product, len(products))
	for i, product := range products {
		product.Images = cloneStrings(product.Images)
		product.Tags = cloneStrings(product.Tags)
		product.ScentComposition = cloneStrings(product.ScentComposition)
		product.Ingredients = cloneStrings(product.Ingredients)
		if product.Variants != nil {
			product.Variants = append([]models.ProductVariant(nil), product.Variants...)
		}
		result[i] = product
	}
	return result
}

func cloneStrings(values models.StringArray) models.StringArray {
	if values == nil {
		return nil
	}
	return append(models.StringArray(nil), values...)
}
