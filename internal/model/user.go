package model

import (
	"strings"
	"time"
)

type UserRole string

const (
	Owner       UserRole = "OWNER"
	Participant UserRole = "PARTICIPANT"
)

// swagger:model User
type User struct {
	UUIDBase
	FirstName   string    `gorm:"size:255;not null" json:"first_name"`
	LastName    string    `gorm:"size:255;not null" json:"last_name"`
	Email       string    `gorm:"size:255;unique;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	Role        UserRole  `gorm:"type:varchar(20);default:'PARTICIPANT'" json:"role"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	IsSuperuser bool      `gorm:"default:false" json:"is_superuser"`
	LastLogin   time.Time `gorm:"autoCreateTime" json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName 仪表盘里展示的参与者姓名
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
