package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/config"
	"github.com/skillswap/skillswap-api/internal/models"
	"github.com/skillswap/skillswap-api/internal/services"
	jwtutil "github.com/skillswap/skillswap-api/pkg/jwt"
	"github.com/skillswap/skillswap-api/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles HTTP requests related to user operations.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name          string   `json:"name"`
		Email         string   `json:"email"`
		Password      string   `json:"password"`
		SkillsOffered []string `json:"skills_offered"`
		SkillsWanted  []string `json:"skills_wanted"`
		Availability  string   `json:"availability"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.WithError(err).Warn("Failed to decode user registration request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user := &models.User{
		Name:          body.Name,
		Email:         body.Email,
		SkillsOffered: body.SkillsOffered,
		SkillsWanted:  body.SkillsWanted,
		Availability:  body.Availability,
	}

	createdUser, err := h.Service.RegisterUser(r.Context(), user, body.Password)
	if err != nil {
		log.WithError(err).Error("Failed to register user")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	respondJSON(w, http.StatusCreated, createdUser)
}

// LoginUserHandler handles user login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithField("email", credentials.Email).WithError(err).Warn("Authentication failed")
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// VerifyEmailHandler confirms a registration via the emailed token.
func (h *UserHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "Missing verification token")
		return
	}

	if err := h.Service.VerifyEmail(r.Context(), token); err != nil {
		log.WithError(err).Warn("Email verification failed")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

// GetMeHandler returns the authenticated user's own account.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// GetUserHandler returns another user's public profile.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if _, err := primitive.ObjectIDFromHex(vars["id"]); err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.Service.GetUser(r.Context(), vars["id"])
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.WithError(err).Error("Failed to fetch user")
		respondError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	profile := user.Public()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":             profile.ID,
		"name":           profile.Name,
		"email":          profile.Email,
		"skills_offered": profile.SkillsOffered,
		"skills_wanted":  profile.SkillsWanted,
		"availability":   user.Availability,
		"rating":         user.Rating,
	})
}

// UpdateUserHandler handles updating a user profile.
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestedUserID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Only the logged-in user can update their own profile.
	if requestedUserID != claims.UserID {
		log.WithFields(log.Fields{
			"requestedUserID": requestedUserID,
			"loggedInUserID":  claims.UserID,
		}).Warn("Forbidden update attempt")
		respondError(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var upd services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.WithError(err).Warn("Failed to decode update request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	updatedUser, err := h.Service.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		log.WithField("userID", requestedUserID).WithError(err).Error("Failed to update user")
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	log.WithField("userID", updatedUser.ID.Hex()).Info("User updated successfully")
	respondJSON(w, http.StatusOK, updatedUser)
}

// DeactivateUserHandler lets a user deactivate their own account.
func (h *UserHandler) DeactivateUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	if err := h.Service.DeactivateUser(r.Context(), userID); err != nil {
		log.WithError(err).Error("Failed to deactivate user")
		respondError(w, http.StatusInternalServerError, "Failed to deactivate account")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Account deactivated"})
}

// SearchUsersHandler finds active users offering a skill.
func (h *UserHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	skill := r.URL.Query().Get("skill")
	if skill == "" {
		respondError(w, http.StatusBadRequest, "Missing skill query parameter")
		return
	}

	users, err := h.Service.SearchUsersBySkill(r.Context(), skill)
	if err != nil {
		log.WithError(err).Error("Failed to search users")
		respondError(w, http.StatusInternalServerError, "Failed to search users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// TopRatedUsersHandler returns the highest-rated active users.
func (h *UserHandler) TopRatedUsersHandler(w http.ResponseWriter, r *http.Request) {
	var limit int64 = 10
	if parsed, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && parsed > 0 {
		limit = parsed
	}

	users, err := h.Service.GetTopRated(r.Context(), limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch top rated users")
		respondError(w, http.StatusInternalServerError, "Failed to fetch top rated users")
		return
	}

	results := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		results = append(results, map[string]interface{}{
			"id":             users[i].ID,
			"name":           users[i].Name,
			"skills_offered": users[i].SkillsOffered,
			"rating":         users[i].Rating,
		})
	}

	respondJSON(w, http.StatusOK, results)
}

// AdminGetAllUsersHandler returns every account. Admin only.
func (h *UserHandler) AdminGetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		log.Errorf("Admin %s failed to fetch users: %v", claims.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	log.Infof("Admin %s fetched %d users", claims.UserID, len(users))
	respondJSON(w, http.StatusOK, users)
}
