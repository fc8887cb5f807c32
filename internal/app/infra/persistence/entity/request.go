package entity

import (
	"time"

	"gorm.io/datatypes"
)

// PurchaseRequest 采购请求实体（队列存储行）
type PurchaseRequest struct {
	// 基础字段
	ID  string `gorm:"column:id;primaryKey;type:varchar(64)"`
	Seq int64  `gorm:"column:seq;autoIncrement;uniqueIndex:uk_seq"`

	SupplierName string `gorm:"column:supplier_name;type:varchar(255)"`

	// 行项目与合计
	Items       datatypes.JSON `gorm:"column:items;type:json"`
	TotalAmount float64        `gorm:"column:total_amount;not null;default:0"`

	// 生命周期
	ApprovalLevel string         `gorm:"column:approval_level;type:varchar(32)"`
	State         string         `gorm:"column:state;type:varchar(32);not null;index:idx_state"`
	DecisionNotes datatypes.JSON `gorm:"column:decision_notes;type:json"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}
