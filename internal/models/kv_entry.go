package models

import "time"

// KVEntry 键值存储表（用于购物车等整块序列化数据）
type KVEntry struct {
	Key       string    `gorm:"column:kv_key;primaryKey;type:varchar(191)" json:"key"` // 存储键
	Value     []byte    `gorm:"not null" json:"value"`                                 // 序列化内容
	CreatedAt time.Time `json:"created_at"`                                            // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                               // 更新时间
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
