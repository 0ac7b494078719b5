package models

import "time"

// Cat 救助猫咪档案
// is_* 字段沿用 0/1 整数，和历史数据保持一致
type Cat struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Category     string    `gorm:"size:32;not null" json:"category"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Gender       string    `gorm:"size:8;not null" json:"gender"`
	AgeMonths    int       `gorm:"not null" json:"age_months"`
	IsVaccinated int       `gorm:"default:0" json:"is_vaccinated"`
	IsDewormed   int       `gorm:"default:0" json:"is_dewormed"`
	IsNeutered   int       `gorm:"default:0" json:"is_neutered"`
	IsPlaced     int       `gorm:"default:0" json:"is_placed"`

	// 图片：URL 列为旧数据的外链，*_data 列为数据库内联存储
	Photo                    string `gorm:"size:255" json:"photo"`
	PhotoData                []byte `gorm:"type:bytea" json:"-"`
	PhotoMimeType            string `gorm:"size:64" json:"-"`
	VaccinationProof         string `gorm:"size:255" json:"vaccination_proof"`
	VaccinationProofData     []byte `gorm:"type:bytea" json:"-"`
	VaccinationProofMimeType string `gorm:"size:64" json:"-"`

	RescuerName     string    `gorm:"size:64;not null" json:"rescuer_name"`
	Phone           string    `gorm:"size:32;not null" json:"phone"`
	RescueDate      time.Time `gorm:"type:date;not null" json:"rescue_date"`
	RescueLocation  string    `gorm:"size:255;not null" json:"rescue_location"`
	RescueProcess   string    `gorm:"size:512;not null" json:"rescue_process"`
	AdoptionLocation string   `gorm:"size:255" json:"adoption_location"`
	CurrentStatus   string    `gorm:"size:64" json:"current_status"`
	AdoptionStatus  string    `gorm:"size:16" json:"adoption_status"` // 未领养、审核中、已领养

	UnitID    *uint     `gorm:"index" json:"unit_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
