package repository

import (
	"newsjam-server/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(post).Error
	})
}

func (r *PostRepository) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("User").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPage 分页查询帖子并预加载作者。page 从 1 开始，越界返回空切片。
func (r *PostRepository) ListPage(page, limit int) ([]model.Post, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	offset := (page - 1) * limit

	var posts []model.Post
	if err := r.db.Preload("User").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByUser 查询某个用户的全部帖子，按创建时间倒序。
func (r *PostRepository) ListByUser(userID uint) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateTitleContent 只更新标题与正文。帖子不存在时返回 gorm.ErrRecordNotFound。
func (r *PostRepository) UpdateTitleContent(id uint, title, content string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		return tx.Model(&post).Updates(map[string]interface{}{
			"title":   title,
			"content": content,
		}).Error
	})
}

// UpdateURL 重命名完成后回写最终媒体路径的窄更新。
func (r *PostRepository) UpdateURL(id uint, url string) error {
	res := r.db.Model(&model.Post{}).Where("id = ?", id).Update("url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}
