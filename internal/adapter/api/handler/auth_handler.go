package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type signupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"omitempty,max=60"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.Signup(c.Request().Context(), usecase.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}

func (h *AuthHandler) Me(c echo.Context) error {
	actor := actorOf(c)

	user, err := h.authUseCase.Me(c.Request().Context(), actor)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"user":           user,
		"email_verified": actor.EmailVerified,
	})
}

func (h *AuthHandler) ResendVerification(c echo.Context) error {
	if err := h.authUseCase.ResendVerification(c.Request().Context(), actorOf(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Verification email sent"})
}

func (h *AuthHandler) CheckVerification(c echo.Context) error {
	verified, err := h.authUseCase.CheckVerification(c.Request().Context(), actorOf(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"verified": verified})
}
