package repository

import "newsjam-server/internal/model"

type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Create(user *model.User) error
	UpdatePasswordByID(userID uint, hashedPassword string) error
	EmailExists(email string) (bool, error)
	DeleteUserWithPosts(userID uint) ([]model.Post, error)
}
