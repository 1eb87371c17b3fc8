package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

// AuthHandler exposes the auth service HTTP surface: login, account
// lifecycle, and the token check consumed by the task tracker.
type AuthHandler struct {
	accounts ports.AccountService
	tokens   ports.TokenService
}

func NewAuthHandler(accounts ports.AccountService, tokens ports.TokenService) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type createAccountRequest struct {
	Username  string  `form:"username" validate:"required"`
	Password  string  `form:"password" validate:"required"`
	Email     *string `form:"email"`
	FirstName *string `form:"first_name"`
	LastName  *string `form:"last_name"`
	Role      int     `form:"role" validate:"omitempty,oneof=1 2 3"`
}

type updateAccountRequest struct {
	Token     string  `form:"token"    validate:"required"`
	UserID    string  `form:"user_id"  validate:"required,uuid"`
	Username  string  `form:"username" validate:"required"`
	Email     *string `form:"email"`
	FirstName *string `form:"first_name"`
	LastName  *string `form:"last_name"`
	Role      int     `form:"role" validate:"omitempty,oneof=1 2 3"`
}

type deleteAccountRequest struct {
	Token  string `form:"token"   validate:"required"`
	UserID string `form:"user_id" validate:"required,uuid"`
}

type accountResponse struct {
	PublicID string `json:"public_id"`
	Username string `json:"username"`
	Role     int    `json:"role"`
}

// Login authenticates the credentials and issues a fresh bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.tokens.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		// A missing account and a wrong password are indistinguishable to
		// the caller.
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
	})
}

// Create registers a new account.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  accountResponse
// @Failure      409  {object}  errorResponse
// @Router       /auth/create [post]
func (h *AuthHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Register(c.Request().Context(), ports.RegisterAccountInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountResponse{
		PublicID: account.PublicID,
		Username: account.Username,
		Role:     int(account.Role),
	})
}

// Update overwrites an account's mutable fields. Requires the target
// account's current stored token.
//
// @Summary      Update an account
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/update [post]
func (h *AuthHandler) Update(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.tokens.VerifyByIdentity(c.Request().Context(), req.UserID, req.Token); err != nil {
		return err
	}

	account, err := h.accounts.Update(c.Request().Context(), ports.UpdateAccountInput{
		PublicID:  req.UserID,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountResponse{
		PublicID: account.PublicID,
		Username: account.Username,
		Role:     int(account.Role),
	})
}

// Delete removes an account. Requires the target account's current stored
// token.
//
// @Summary      Delete an account
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorResponse
// @Router       /auth/delete [post]
func (h *AuthHandler) Delete(c echo.Context) error {
	var req deleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.tokens.VerifyByIdentity(c.Request().Context(), req.UserID, req.Token); err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), req.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Check answers the cross-service token check: 200 iff the presented token is
// the stored current token for the public identity.
//
// @Summary      Check a token against the stored session
// @Tags         auth
// @Produce      json
// @Param        public_user_id  query  string  true  "Public account UUID"
// @Param        token           query  string  true  "Bearer token"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorResponse
// @Router       /auth/check [get]
func (h *AuthHandler) Check(c echo.Context) error {
	publicID := c.QueryParam("public_user_id")
	token := c.QueryParam("token")
	if publicID == "" || token == "" {
		return domain.ErrTokenInvalid
	}

	if err := h.tokens.VerifyByIdentity(c.Request().Context(), publicID, token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
