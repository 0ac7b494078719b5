package models

import "time"

// Unit 救助单位/组织
type Unit struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Code          string    `gorm:"size:64" json:"code"`
	Address       string    `gorm:"size:255" json:"address"`
	Location      string    `gorm:"size:64" json:"location"` // 位置坐标，格式：纬度,经度
	ContactPerson string    `gorm:"size:64" json:"contact_person"`
	Phone         string    `gorm:"size:32" json:"phone"`
	Email         string    `gorm:"size:128" json:"email"`
	Description   string    `gorm:"size:512" json:"description"`
	Status        string    `gorm:"size:16;default:active" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
