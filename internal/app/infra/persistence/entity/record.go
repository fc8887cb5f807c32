package entity

import (
	"time"

	"gorm.io/datatypes"
)

// PORecord 采购订单记录实体（审批通过后落库的权威记录）
// request_id 唯一索引保证同一请求重复 commit 不会产生第二条记录
type PORecord struct {
	RecordID  string `gorm:"column:record_id;primaryKey;type:varchar(64)"`
	RequestID string `gorm:"column:request_id;type:varchar(64);not null;uniqueIndex:uk_request_id"`
	PONumber  string `gorm:"column:po_number;type:varchar(64);not null"`

	SupplierName string         `gorm:"column:supplier_name;type:varchar(255)"`
	TotalAmount  float64        `gorm:"column:total_amount;not null;default:0"`
	Payload      datatypes.JSON `gorm:"column:payload;type:json;not null"`

	CommittedAt time.Time `gorm:"column:committed_at;not null"`
}

// TableName 指定表名
func (PORecord) TableName() string {
	return "po_records"
}
