package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Email     string    `gorm:"size:120;unique;not null" json:"Email"`
	Password  string    `gorm:"size:256" json:"-"` // bcrypt哈希，激活前为空
	IsAdmin   bool      `gorm:"default:false" json:"IsAdmin"`
	IsActive  bool      `gorm:"default:false" json:"IsActive"` // 邮箱激活后为true
	Nickname  string    `gorm:"size:50" json:"Nickname"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}
