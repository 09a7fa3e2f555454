package repository

import (
	"errors"
	"strings"

	"github.com/lunapatch/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	ListAll() ([]models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Count() (int64, error)
	ReplaceAll(products []models.Product) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListAll 按目录顺序返回全部商品（规格按顺序预加载）
func (r *GormProductRepository) ListAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Model(&models.Product{}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("position ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetBySlug 按 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("slug = ?", strings.TrimSpace(slug)).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Count 商品总数
func (r *GormProductRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ReplaceAll 以给定目录覆盖商品与规格（用于目录导入）
func (r *GormProductRepository) ReplaceAll(products []models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		for i := range products {
			product := products[i]
			product.Position = i
			variants := product.Variants
			product.Variants = nil
			if err := tx.Omit(clause.Associations).Create(&product).Error; err != nil {
				return err
			}
			for j := range variants {
				variant := variants[j]
				variant.ProductID = product.ID
				variant.Position = j
				if err := tx.Create(&variant).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
