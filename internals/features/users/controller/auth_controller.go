// file: internals/features/users/controller/auth_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"escola_backend/internals/configs"
	model "escola_backend/internals/features/users/model"
	helper "escola_backend/internals/helpers"
	supa "escola_backend/internals/helpers/supabase"
)

// AuthController handles login/logout. When the deployment runs against
// the remote backend, credentials are verified by its auth API; otherwise
// the local bcrypt hash is checked. Either way the session token issued
// to the client is our own JWT carrying the user's role.
type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Supabase *supa.Service // nil in local mode
}

func NewAuthController(db *gorm.DB, v *validator.Validate, sb *supa.Service) *AuthController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &AuthController{DB: db, Validate: v, Supabase: sb}
}

func reqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrors(err))
	}

	var user model.UserModel
	err := ctl.DB.WithContext(reqCtx(c)).
		First(&user, "user_email = ? AND user_is_active = ?", strings.ToLower(req.Email), true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		log.Printf("[AUTH][LOGIN] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}

	if ctl.Supabase != nil {
		if _, err := ctl.Supabase.SignIn(reqCtx(c), req.Email, req.Password); err != nil {
			log.Printf("[AUTH][LOGIN] remote sign-in rejected: %v", err)
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
	} else if !user.CheckPassword(req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := issueToken(&user)
	if err != nil {
		log.Printf("[AUTH][LOGIN] token issue: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}
	return helper.JsonOK(c, "logged in", fiber.Map{
		"access_token": token,
		"user_id":      user.UserID,
		"role":         user.UserRole,
	})
}

func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	if ctl.Supabase != nil {
		if token := bearerToken(c); token != "" {
			if err := ctl.Supabase.SignOut(reqCtx(c), token); err != nil {
				log.Printf("[AUTH][LOGOUT][WARN] remote sign-out failed: %v", err)
			}
		}
	}
	// Stateless JWT: the client drops the token.
	return helper.JsonOK(c, "logged out", nil)
}

func issueToken(u *model.UserModel) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.UserID.String(),
		"role":    u.UserRole,
		"exp":     time.Now().Add(12 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
