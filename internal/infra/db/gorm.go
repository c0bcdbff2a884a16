package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect はDSNでDBに接続して *gorm.DB を返す。
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}
