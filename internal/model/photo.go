package model

import "time"

// CleaningPhoto 清扫照片，对应 cleaning_photos
type CleaningPhoto struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID      string    `gorm:"type:uuid;not null;index"                       json:"store_id"`
	Area         string    `gorm:"type:varchar(100);not null;default:''"          json:"area"`
	AreaCategory string    `gorm:"type:varchar(50);not null;default:''"           json:"area_category"` // inventory 为库存照片，不计入清扫
	Kind         string    `gorm:"type:varchar(10);not null"                      json:"kind"`          // before | after
	PhotoURL     string    `gorm:"type:text;not null"                             json:"photo_url"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (CleaningPhoto) TableName() string { return "cleaning_photos" }

// ProductPhoto 商品照片，对应 product_photos
type ProductPhoto struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID   string    `gorm:"type:uuid;not null;index"                       json:"store_id"`
	Type      string    `gorm:"type:varchar(20);not null"                      json:"type"` // receipt | storage
	PhotoURL  string    `gorm:"type:text;not null"                             json:"photo_url"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ProductPhoto) TableName() string { return "product_photos" }
