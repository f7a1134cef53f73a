package model

import "time"

type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
	Username       string    `json:"username" gorm:"not null"`
	Email          string    `json:"email" gorm:"unique;index;size:255;not null"`
	HashedPassword string    `json:"-" gorm:"not null"`
	Posts          []Post    `json:"-"`
}
