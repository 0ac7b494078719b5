package models

import "time"

// Person 人员（既是救助站工作人员档案，也是登录账号）
type Person struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:64;not null" json:"name"`
	IDCard    string     `gorm:"column:id_card;size:32" json:"id_card"`
	Phone     string     `gorm:"size:32" json:"phone"`
	Email     string     `gorm:"size:128" json:"email"`
	Gender    string     `gorm:"size:8" json:"gender"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date"`
	Address   string     `gorm:"size:255" json:"address"`
	UnitID    *uint      `gorm:"index" json:"unit_id"`
	Position  string     `gorm:"size:64" json:"position"`
	Status    string     `gorm:"size:16;default:active" json:"status"`
	Notes     string     `gorm:"size:512" json:"notes"`

	// 登录账号相关
	Username  string     `gorm:"size:64;uniqueIndex" json:"username"`
	Password  string     `gorm:"size:255" json:"-"` // bcrypt 哈希，永不下发
	Role      string     `gorm:"size:16;default:user" json:"role"` // 粗粒度角色标签：user / admin
	RoleID    *uint      `gorm:"index" json:"role_id"`
	LastLogin *time.Time `json:"last_login"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 联表查询出来的冗余字段（不建列）
	UnitName *string `gorm:"->;-:migration" json:"unit_name"`
	RoleName *string `gorm:"->;-:migration" json:"role_name"`
}
