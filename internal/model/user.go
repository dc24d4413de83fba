package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Mentor  UserRole = "mentor"
	Admin   UserRole = "admin"
)

// User 账户表是常规可变表，不走账本；钱包地址是账本上所有记录的归属身份
// swagger:model
type User struct {
	BaseModel
	Name          string     `gorm:"size:100;not null" json:"name"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"size:255;not null" json:"-"`
	WalletAddress string     `gorm:"size:64;uniqueIndex;not null" json:"walletAddress"`
	Role          UserRole   `gorm:"size:20;default:'student'" json:"role"`
	LastSeenAt    *time.Time `json:"lastSeenAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}
