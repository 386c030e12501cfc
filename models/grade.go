package models

import "time"

// Grade is always a child of exactly one (student, class) pair.
type Grade struct {
	ID         uint      `gorm:"primaryKey"       json:"id"`
	StudentID  uint      `gorm:"not null;index"   json:"student_id"`
	ClassID    uint      `gorm:"not null;index"   json:"class_id"`
	Assignment string    `gorm:"size:100;not null" json:"assignment"`
	Score      float64   `gorm:"not null"         json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (g Grade) EntityID() uint { return g.ID }
