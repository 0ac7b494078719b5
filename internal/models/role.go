package models

import "time"

// Role 角色，通过 role_pages 关联可访问的页面
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 页面 ID 列表，由 handler 从 role_pages 填充
	Pages []uint `gorm:"-" json:"pages"`
}

// Page 前端页面（菜单项），path 与前端路由一一对应
type Page struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Path        string `gorm:"size:128;uniqueIndex;not null" json:"path"`
	Name        string `gorm:"size:64;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

// RolePage 角色-页面权限关联表
type RolePage struct {
	RoleID uint `gorm:"primaryKey;autoIncrement:false"`
	PageID uint `gorm:"primaryKey;autoIncrement:false"`
}
