package model

// 地名マスタ（省/郡/坊）。注文には名前をスナップショットで持たせる。

type Province struct {
	Code int64  `gorm:"primaryKey" json:"code"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

type District struct {
	Code         int64  `gorm:"primaryKey" json:"code"`
	ProvinceCode int64  `gorm:"not null;index" json:"province_code"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
}

type Ward struct {
	Code         int64  `gorm:"primaryKey" json:"code"`
	DistrictCode int64  `gorm:"not null;index" json:"district_code"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
}
