package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bnb-backend/logger"
	"bnb-backend/middleware"
	"bnb-backend/services"
	"bnb-backend/utils"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

type registerPayload struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Whatsapp string `json:"whatsapp"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	user, err := ac.users.Register(payload.Username, payload.Email, payload.Password, payload.FullName)
	if err != nil {
		switch err {
		case services.ErrUsernameTaken:
			utils.JSONFieldError(c, http.StatusConflict, "username", err.Error())
		case services.ErrEmailTaken:
			utils.JSONFieldError(c, http.StatusConflict, "email", err.Error())
		default:
			logger.Error("failed to register user", "error", err)
			utils.JSONError(c, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	if payload.Phone != "" || payload.Whatsapp != "" {
		if _, err := ac.users.UpdateProfile(user.ID, services.ProfileUpdate{
			Phone:    payload.Phone,
			Whatsapp: payload.Whatsapp,
		}); err != nil {
			logger.Warn("failed to store contact details", "user_id", user.ID, "error", err)
		}
	}

	token, err := utils.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		logger.Error("failed to issue token", "user_id", user.ID, "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

type loginPayload struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login accepts username or email as the identifier.
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	user, err := ac.users.Authenticate(payload.Identifier, payload.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logger.Error("failed to authenticate", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		logger.Error("failed to issue token", "user_id", user.ID, "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (ac *AuthController) Profile(c *gin.Context) {
	user, err := ac.users.GetByID(middleware.UserID(c))
	if err != nil {
		if err == services.ErrUserNotFound {
			utils.JSONError(c, http.StatusNotFound, "user not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

type profilePayload struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Whatsapp string `json:"whatsapp"`
	Bio      string `json:"bio"`
	IsHost   *bool  `json:"is_host"`
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var payload profilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	if payload.Phone != "" && !phoneRe.MatchString(payload.Phone) {
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, "phone",
			"phone number must be entered in the format: '+254712345678'")
		return
	}
	if payload.Whatsapp != "" && !phoneRe.MatchString(payload.Whatsapp) {
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, "whatsapp",
			"phone number must be entered in the format: '+254712345678'")
		return
	}

	user, err := ac.users.UpdateProfile(middleware.UserID(c), services.ProfileUpdate{
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Whatsapp: payload.Whatsapp,
		Bio:      payload.Bio,
		IsHost:   payload.IsHost,
	})
	if err != nil {
		if err == services.ErrUserNotFound {
			utils.JSONError(c, http.StatusNotFound, "user not found")
			return
		}
		logger.Error("failed to update profile", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

func (ac *AuthController) DeleteAccount(c *gin.Context) {
	if err := ac.users.Delete(middleware.UserID(c)); err != nil {
		if err == services.ErrUserNotFound {
			utils.JSONError(c, http.StatusNotFound, "user not found")
			return
		}
		logger.Error("failed to delete account", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete account")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "account deleted"})
}
