package repository

import "newsjam-server/internal/model"

// DefaultPageLimit 是分页查询的默认每页条数。
const DefaultPageLimit = 20

type PostStore interface {
	Create(post *model.Post) error
	FindByID(id uint) (*model.Post, error)
	ListPage(page, limit int) ([]model.Post, error)
	ListByUser(userID uint) ([]model.Post, error)
	UpdateTitleContent(id uint, title, content string) error
	UpdateURL(id uint, url string) error
	Delete(id uint) error
}
