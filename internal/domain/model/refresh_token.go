package model

import "time"

// リフレッシュトークン。DBには平文でなくsha256ハッシュを保存する。
type RefreshToken struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    int64  `gorm:"not null;index"`
	TokenHash string `gorm:"type:varchar(64);not null;uniqueIndex"`
	UserAgent string `gorm:"type:varchar(255)"`
	ExpiresAt time.Time
	UsedAt    *time.Time
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}
