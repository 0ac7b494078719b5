package database

import (
	"fmt"

	"github.com/qilimazhualuo/cat-rescue/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Unit{},
		&models.Role{},
		&models.Page{},
		&models.RolePage{},
		&models.Person{},
		&models.Cat{},
		&models.AdoptionApplication{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// 系统内置页面，和前端路由保持一致
var defaultPages = []models.Page{
	{Path: "/cats", Name: "猫咪管理", Description: "救助猫咪档案管理"},
	{Path: "/adoption-applications", Name: "领养申请", Description: "领养申请审核"},
	{Path: "/persons", Name: "人员管理", Description: "工作人员与账号管理"},
	{Path: "/units", Name: "单位管理", Description: "救助单位管理"},
	{Path: "/roles", Name: "角色管理", Description: "角色与页面权限管理"},
}

// SeedPages 初始化内置页面和 admin 角色，已存在则跳过
func SeedPages(db *gorm.DB) error {
	for _, page := range defaultPages {
		var count int64
		if err := db.Model(&models.Page{}).Where("path = ?", page.Path).Count(&count).Error; err != nil {
			return fmt.Errorf("check page %s: %w", page.Path, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&page).Error; err != nil {
			return fmt.Errorf("seed page %s: %w", page.Path, err)
		}
	}

	// admin 角色：管理员权限判断依赖 role_name == "admin"
	var count int64
	if err := db.Model(&models.Role{}).Where("name = ?", "admin").Count(&count).Error; err != nil {
		return fmt.Errorf("check admin role: %w", err)
	}
	if count == 0 {
		role := models.Role{Name: "admin", Description: "系统管理员"}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("seed admin role: %w", err)
		}
	}
	return nil
}
