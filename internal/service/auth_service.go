package service

import (
	"errors"
	"log"
	"newsjam-server/internal/common"
	"newsjam-server/internal/config"
	"newsjam-server/internal/model"
	"newsjam-server/internal/repository"
	"newsjam-server/internal/utils"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	users repository.UserStore
}

func NewAuthService(users repository.UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterUser 注册新用户。邮箱重复返回 conflict。
func (s *AuthService) RegisterUser(username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidateEmail(email); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, common.NewValidationError(msg)
	}

	exists, err := s.users.EmailExists(email)
	if err != nil {
		log.Printf("Check email error: %v\n", err)
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}
	if exists {
		return nil, common.NewConflictError("该邮箱已注册，请直接登录")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Hash password error: %v\n", err)
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: string(hashed),
	}
	if err := s.users.Create(user); err != nil {
		// 并发注册可能越过上面的预检查，唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, common.NewConflictError("该邮箱已注册，请直接登录")
		}
		log.Printf("Create user error: %v\n", err)
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}

	return user, nil
}

// LoginUser 校验邮箱与密码并签发 JWT。
// 邮箱不存在与密码错误返回同一错误，不泄露是哪一项失败。
func (s *AuthService) LoginUser(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", common.NewUnauthorizedError("邮箱或密码错误")
		}
		log.Printf("Find user error: %v\n", err)
		return "", common.NewInternalError("登录失败，请稍后重试")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", common.NewUnauthorizedError("邮箱或密码错误")
	}

	cfg := config.Get()
	token, err := utils.GenerateLoginToken(user.ID, user.Username, time.Hour*time.Duration(cfg.JWT.ExpirationHours))
	if err != nil {
		log.Printf("Generate token error: %v\n", err)
		return "", common.NewInternalError("登录失败，请稍后重试")
	}

	return token, nil
}
