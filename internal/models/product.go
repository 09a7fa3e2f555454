package models

import (
	"time"
)

// Product 商品表
type Product struct {
	ID                  string           `gorm:"primaryKey;type:varchar(64)" json:"id"`                   // 商品ID
	Slug                string           `gorm:"uniqueIndex;type:varchar(191);not null" json:"slug"`      // 唯一标识（URL 安全）
	Title               string           `gorm:"type:varchar(255);not null" json:"title"`                 // 标题
	Series              string           `gorm:"type:varchar(32);not null;index" json:"series"`           // 系列（Sleep/Focus/Mood/Collection）
	Description         string           `gorm:"type:text" json:"description"`                            // 简介
	FullDescription     string           `gorm:"type:text" json:"full_description,omitempty"`             // 详情
	Images              StringArray      `gorm:"type:json" json:"images"`                                 // 图片数组（首图为主图）
	Rating              float64          `gorm:"not null;default:0" json:"rating"`                        // 评分 0-5
	ReviewsCount        int              `gorm:"not null;default:0" json:"reviews_count"`                 // 评论数
	Tags                StringArray      `gorm:"type:json" json:"tags,omitempty"`                         // 标签
	Featured            bool             `gorm:"not null;default:false;index" json:"featured"`            // 是否推荐
	ScentComposition    StringArray      `gorm:"type:json" json:"scent_composition,omitempty"`            // 香调
	Ingredients         StringArray      `gorm:"type:json" json:"ingredients,omitempty"`                  // 成分
	SafetyNotes         string           `gorm:"type:text" json:"safety_notes,omitempty"`                 // 安全提示
	Weight              string           `gorm:"type:varchar(64)" json:"weight,omitempty"`                // 重量
	PackagingDimensions string           `gorm:"type:varchar(128)" json:"packaging_dimensions,omitempty"` // 包装尺寸
	Position            int              `gorm:"not null;default:0;index" json:"-"`                       // 目录顺序
	CreatedAt           time.Time        `json:"-"`                                                       // 创建时间
	UpdatedAt           time.Time        `json:"-"`                                                       // 更新时间
	Variants            []ProductVariant `gorm:"foreignKey:ProductID;references:ID" json:"variants"`      // 规格列表（有序，非空）
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PrimaryImage 返回主图
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// FirstVariant 返回首个规格（列表价格以首个规格为准）
func (p Product) FirstVariant() (ProductVariant, bool) {
	if len(p.Variants) == 0 {
		return ProductVariant{}, false
	}
	return p.Variants[0], true
}

// FindVariant 按 ID 查找规格
func (p Product) FindVariant(variantID string) (ProductVariant, bool) {
	for _, variant := range p.Variants {
		if variant.ID == variantID {
			return variant, true
		}
	}
	return ProductVariant{}, false
}

// ProductVariant 商品规格表（如包装数量），价格为整数卢比
type ProductVariant struct {
	ProductID string `gorm:"primaryKey;type:varchar(64)" json:"-"`            // 商品ID
	ID        string `gorm:"primaryKey;type:varchar(64)" json:"id"`           // 规格ID
	Name      string `gorm:"type:varchar(255);not null" json:"name"`          // 规格名称
	Price     int64  `gorm:"not null" json:"price"`                           // 价格（整数卢比）
	Inventory int    `gorm:"not null;default:0" json:"inventory"`             // 库存（仅展示，不做校验）
	SKU       string `gorm:"column:sku;type:varchar(64);not null" json:"sku"` // SKU 编码
	Position  int    `gorm:"not null;default:0" json:"-"`                     // 规格顺序
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
