package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/common"
	"curepharmax/internal/middleware"
	"curepharmax/internal/models"
	"curepharmax/internal/services"
)

// AuthHandlers handles signup, login, logout and session checks.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

type sessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

// Signup handles POST /signup. The phone is stored as country code plus
// local number concatenated, matching what the storefront submits.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}
	if err := common.ValidatePhone(req.Phone, "phone"); err != nil {
		return common.SendValidationError(c, "phone", err.Error())
	}
	if len(req.Password) < 6 {
		return common.SendValidationError(c, "password", "Password must be at least 6 characters")
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Name, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPhoneTaken) {
			return common.SendClientError(c, err.Error())
		}
		log.Printf("Signup failed for phone %s: %v", req.Phone, err)
		return common.SendServerError(c, "Failed to create account")
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Account created successfully",
		"user":    sessionUser{ID: user.ID.String(), Name: user.Name, Phone: user.Phone, Role: user.Role},
	})
}

// Login handles POST /login.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.authService.Login(c.Request().Context(), strings.TrimSpace(req.Phone), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", err.Error(), nil))
		}
		log.Printf("Login failed for phone %s: %v", req.Phone, err)
		return common.SendServerError(c, "Login failed")
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logged in successfully",
		"user":    sessionUser{ID: user.ID.String(), Name: user.Name, Phone: user.Phone, Role: user.Role},
	})
}

// Logout handles POST /logout by expiring the session cookie.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CheckSession handles GET /check_session. Unauthenticated requests get
// isLoggedIn false rather than a 401 so the storefront can render either way.
func (h *AuthHandlers) CheckSession(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return c.JSON(http.StatusOK, map[string]interface{}{"isLoggedIn": false})
	}

	name, _ := common.GetUserNameFromContext(ctx)
	role, _ := common.GetUserRoleFromContext(ctx)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"isLoggedIn": true,
		"user":       sessionUser{ID: userID.String(), Name: name, Role: role},
	})
}

// startSession issues a session JWT for the user and sets it as a cookie.
func (h *AuthHandlers) startSession(c echo.Context, user *models.User) error {
	token, err := h.authService.IssueSessionToken(user)
	if err != nil {
		log.Printf("Failed to issue session token for user %s: %v", user.ID, err)
		return common.SendServerError(c, "Failed to start session")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(services.SessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
