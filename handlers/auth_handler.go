package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/ClassPilot/ClassPilot/database"
	"github.com/ClassPilot/ClassPilot/models"
	"github.com/ClassPilot/ClassPilot/validation"
)

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{JWTSecret: secret}
}

func (h *AuthHandler) signJWT(sub uint, name string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"name": name,
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func userFromCtx(c echo.Context) (models.User, error) {
	idAny := c.Get("user_id")
	uid, _ := idAny.(uint)
	var u models.User
	err := database.DB.First(&u, "id = ?", uid).Error
	return u, err
}

// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var p validation.RegisterInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.FullName = strings.Join(strings.Fields(p.FullName), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	var dup models.User
	if err := database.DB.Where("email = ?", p.Email).First(&dup).Error; err == nil {
		return errJSON(c, http.StatusConflict, "EMAIL_EXISTS")
	}

	hash, err := hashPassword(p.Password)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "HASH_FAILED")
	}
	u := models.User{
		FullName: p.FullName,
		Email:    p.Email,
		Password: hash,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}

	token, err := h.signJWT(u.ID, u.FullName, 7*24*time.Hour)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED")
	}
	return c.JSON(http.StatusCreated, map[string]any{"token": token, "user": u})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var p validation.LoginInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	var u models.User
	if err := database.DB.Where("email = ?", p.Email).First(&u).Error; err != nil {
		return errJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(p.Password)) != nil {
		return errJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	}

	token, err := h.signJWT(u.ID, u.FullName, 7*24*time.Hour)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED")
	}
	return c.JSON(http.StatusOK, map[string]any{"token": token, "user": u})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := userFromCtx(c)
	if err != nil {
		return errJSON(c, http.StatusUnauthorized, "USER_NOT_FOUND")
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u})
}

// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	u, err := userFromCtx(c)
	if err != nil {
		return errJSON(c, http.StatusUnauthorized, "USER_NOT_FOUND")
	}

	var p validation.ProfileInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.FullName = strings.Join(strings.Fields(p.FullName), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.FullName == "" && p.Email == "" && p.AvatarURL == "" {
		return errJSON(c, http.StatusBadRequest, "EMPTY")
	}
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	if p.FullName != "" {
		u.FullName = p.FullName
	}
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.AvatarURL != "" {
		u.AvatarURL = p.AvatarURL
	}
	if err := database.DB.Save(&u).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u})
}

// PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	u, err := userFromCtx(c)
	if err != nil {
		return errJSON(c, http.StatusUnauthorized, "USER_NOT_FOUND")
	}

	var p validation.PasswordInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(p.Current)) != nil {
		return errJSON(c, http.StatusUnauthorized, "INVALID_CURRENT_PASSWORD")
	}

	hash, err := hashPassword(p.Next)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "HASH_FAILED")
	}
	u.Password = hash
	if err := database.DB.Save(&u).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// DELETE /api/auth/account
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	u, err := userFromCtx(c)
	if err != nil {
		return errJSON(c, http.StatusUnauthorized, "USER_NOT_FOUND")
	}
	if err := database.DB.Delete(&models.User{}, "id = ?", u.ID).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
