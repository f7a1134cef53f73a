package repository

import (
	"gorm.io/gorm"
)

type Repositories struct {
	User UserStore
	Post PostStore
}

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}

func NewPostRepository(db *gorm.DB) PostStore {
	return &PostRepository{db: db}
}

func NewRepositories(user UserStore, post PostStore) *Repositories {
	return &Repositories{
		User: user,
		Post: post,
	}
}
