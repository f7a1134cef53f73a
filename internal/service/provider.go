package service

import (
	"newsjam-server/internal/config"
	"newsjam-server/internal/repository"
)

type Services struct {
	Auth    *AuthService
	User    *UserService
	Post    *PostService
	Pending *PendingService
}

func NewServices(repos *repository.Repositories) *Services {
	cfg := config.Get()

	pending := NewPendingService()
	verifier := NewVerifyService(cfg.Gemini)
	ocr := NewOCRService(cfg.OCR)

	return &Services{
		Auth:    NewAuthService(repos.User),
		User:    NewUserService(repos.User),
		Post:    NewPostService(repos.Post, verifier, ocr, pending),
		Pending: pending,
	}
}
