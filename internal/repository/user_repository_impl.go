package repository

import (
	"newsjam-server/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) UpdatePasswordByID(userID uint, hashedPassword string) error {
	res := r.db.Model(&model.User{}).Where("id = ?", userID).Update("hashed_password", hashedPassword)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteUserWithPosts 在单个事务内删除用户及其全部帖子。
// 级联删除不依赖数据库外键行为，保证三种驱动下语义一致。
// 返回被删除的帖子，供调用方清理关联的媒体文件。
func (r *UserRepository) DeleteUserWithPosts(userID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Find(&posts).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}
