package models

import "time"

// AdoptionApplication 领养申请
type AdoptionApplication struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	CatID             uint       `gorm:"index;not null" json:"cat_id"`
	ApplicantName     string     `gorm:"size:64;not null" json:"applicant_name"`
	ApplicantPhone    string     `gorm:"size:32;not null" json:"applicant_phone"`
	ApplicantIDCard   string     `gorm:"column:applicant_id_card;size:32" json:"applicant_id_card"`
	ApplicantAddress  string     `gorm:"size:255" json:"applicant_address"`
	ApplicantLocation string     `gorm:"size:64" json:"applicant_location"`
	ApplicantEmail    string     `gorm:"size:128" json:"applicant_email"`
	ApplicationReason string     `gorm:"size:512" json:"application_reason"`
	Status            string     `gorm:"size:16;default:pending" json:"status"` // pending / approved / rejected / completed
	Notes             string     `gorm:"size:512" json:"notes"`
	ApprovedBy        *uint      `json:"approved_by"`
	ApprovedAt        *time.Time `json:"approved_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
