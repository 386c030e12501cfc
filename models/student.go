package models

import "time"

type Student struct {
	ID          uint      `gorm:"primaryKey"        json:"id"`
	FullName    string    `gorm:"size:100;not null" json:"full_name"`
	Age         int       `gorm:"not null"          json:"age"`
	Grade       int       `gorm:"not null"          json:"grade"` // grade level 1-12
	Gender      string    `gorm:"size:20"           json:"gender"`
	Email       string    `gorm:"size:120"          json:"email"`
	ParentEmail string    `gorm:"size:120"          json:"parent_email"`
	ParentPhone string    `gorm:"size:20"           json:"parent_phone"`
	Notes       string    `gorm:"type:text"         json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s Student) EntityID() uint { return s.ID }
