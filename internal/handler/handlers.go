package handler

import "newsjam-server/internal/service"

type AuthHandler struct {
	authService *service.AuthService
}

type UserHandler struct {
	userService *service.UserService
}

type PostHandler struct {
	postService *service.PostService
}

type Handlers struct {
	Auth *AuthHandler
	User *UserHandler
	Post *PostHandler
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth: NewAuthHandler(services.Auth),
		User: NewUserHandler(services.User),
		Post: NewPostHandler(services.Post),
	}
}
