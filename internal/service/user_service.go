package service

import (
	"log"
	"newsjam-server/internal/common"
	"newsjam-server/internal/model"
	"newsjam-server/internal/repository"
	"newsjam-server/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users repository.UserStore
}

func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

// GetProfile 查询用户信息。
func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, classifyStoreError(err, "用户不存在")
	}
	return user, nil
}

// UpdatePassword 更新当前用户的登录密码。
func (s *UserService) UpdatePassword(userID uint, newPassword string) error {
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return common.NewValidationError(msg)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Hash password error: %v\n", err)
		return common.NewInternalError("密码更新失败，请稍后重试")
	}

	if err := s.users.UpdatePasswordByID(userID, string(hashed)); err != nil {
		return classifyStoreError(err, "用户不存在")
	}
	return nil
}

// DeleteUser 删除账号，仅允许本人操作。
// 帖子随用户一并删除，关联的媒体文件尽力清理。
func (s *UserService) DeleteUser(callerID, targetID uint) error {
	if callerID != targetID {
		return common.NewForbiddenError("没有权限删除该账号")
	}

	posts, err := s.users.DeleteUserWithPosts(targetID)
	if err != nil {
		return classifyStoreError(err, "用户不存在")
	}

	// 事务提交后清理媒体文件，失败只记录日志
	for i := range posts {
		if posts[i].URL != nil {
			DeleteMedia(*posts[i].URL)
		}
	}
	return nil
}
