package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/services"
	"github.com/storefront/backend/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !bindBody(w, r, &in) {
		return
	}
	u, token, err := c.auth.Register(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, authPayload{User: u, Token: token})
}

// Login handles POST /auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !bindBody(w, r, &in) {
		return
	}
	u, token, err := c.auth.Login(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, authPayload{User: u, Token: token})
}

// Profile handles GET /auth/profile.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	u, err := c.auth.Profile(r.Context(), p.ID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, u)
}

// UpdateProfile handles PUT /auth/profile.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var in services.UpdateProfileInput
	if !bindBody(w, r, &in) {
		return
	}
	u, token, err := c.auth.UpdateProfile(r.Context(), p.ID, in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, authPayload{User: u, Token: token})
}

type forgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword handles POST /auth/forgot-password.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in forgotPasswordInput
	if !bindBody(w, r, &in) {
		return
	}
	if err := c.auth.ForgotPassword(r.Context(), in.Email); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Message(w, "Password reset email sent")
}

// ResetPassword handles PUT /auth/reset-password/{token}.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in services.ResetPasswordInput
	if !bindBody(w, r, &in) {
		return
	}
	u, token, err := c.auth.ResetPassword(r.Context(), chi.URLParam(r, "token"), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Password reset successful", authPayload{User: u, Token: token})
}
