package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/dto"
	"ECOTRACE_BACK-END/internal/middleware"
	"ECOTRACE_BACK-END/internal/models"
	"ECOTRACE_BACK-END/internal/services"
	"ECOTRACE_BACK-END/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth     *services.AuthService
	identity *services.IdentityService
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth *services.AuthService, identity *services.IdentityService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, identity: identity, logger: logger}
}

func toUserInfo(user *models.User) *dto.UserInfo {
	if user == nil {
		return nil
	}
	return &dto.UserInfo{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		IsAnonymous:   user.IsAnonymous,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		EmailVerified: user.EmailVerified,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a registered account with email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 200 {object} dto.AuthResponse "Registration result"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Email and password are required")
		return
	}

	result, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.logger.Error("registration failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Registration failed", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		Success: result.OK,
		Message: result.Message,
		Token:   result.Token,
		User:    toUserInfo(result.User),
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password; issues a fresh token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login result"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Email and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		Success: result.OK,
		Message: result.Message,
		Token:   result.Token,
		User:    toUserInfo(result.User),
	})
}

// GetProfile returns the current user's profile
// @Summary Get user profile
// @Description Get the authenticated user's account information
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserInfo "User profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tokenStr := middleware.TokenFromContext(r.Context())
	user, err := h.identity.ResolveByToken(r.Context(), tokenStr)
	if err != nil {
		h.logger.Error("profile lookup failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Profile lookup failed", err.Error())
		return
	}
	if user == nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toUserInfo(user))
}

// ValidateToken reports whether the presented token is valid
// @Summary Validate a token
// @Description Check a token's signature and resolve the owning user
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.TokenValidationResponse "Validation result"
// @Router /api/auth/validate [get]
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tokenStr := middleware.ExtractToken(r)
	resp := dto.TokenValidationResponse{Valid: h.identity.VerifyToken(tokenStr)}
	if resp.Valid {
		user, err := h.identity.ResolveByToken(r.Context(), tokenStr)
		if err != nil {
			h.logger.Error("token validation lookup failed", zap.Error(err))
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Validation failed", err.Error())
			return
		}
		if user != nil {
			resp.User = toUserInfo(user)
			resp.IsAuthenticated = !user.IsAnonymous
		}
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}
