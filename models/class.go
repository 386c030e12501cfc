package models

import "time"

type Class struct {
	ID          uint      `gorm:"primaryKey"        json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text"         json:"description"`
	Subject     string    `gorm:"size:60"           json:"subject"`
	GradeLevel  int       `json:"grade_level"`
	Capacity    int       `json:"capacity"` // upper bound on enrollment, enforced server-side
	Schedule    string    `gorm:"size:120"          json:"schedule"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c Class) EntityID() uint { return c.ID }
