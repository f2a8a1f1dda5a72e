package services

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/models"
	"github.com/skillswap/skillswap-api/pkg/email"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user accounts.
type UserService struct {
	repo        UserStore
	ratingCache RatingCache
	baseURL     string
}

// NewUserService creates a new instance of UserService. ratingCache is
// optional and only used for the top-rated listing.
func NewUserService(repo UserStore, ratingCache RatingCache, baseURL string) *UserService {
	return &UserService{
		repo:        repo,
		ratingCache: ratingCache,
		baseURL:     baseURL,
	}
}

// RegisterUser registers a new user after hashing their password and sends a
// verification email.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	logrus.Info("Registering new user")

	if user.Email == "" || user.Name == "" || password == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("missing required user fields")
	}

	if !emailRegex.MatchString(user.Email) {
		logrus.WithField("email", user.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}

	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		logrus.WithField("email", user.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	user.HashedPassword = string(hashedPwd)

	if user.Role == "" {
		user.Role = "user"
	}
	user.IsActive = true
	user.IsVerified = false
	user.VerifyToken = uuid.NewString()
	user.Rating = models.Rating{}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	verificationLink := fmt.Sprintf("%s/users/verify?token=%s", s.baseURL, user.VerifyToken)
	emailBody := fmt.Sprintf("Welcome to SkillSwap!\n\nPlease verify your email by clicking the link below:\n%s", verificationLink)

	if err := email.SendEmail(user.Email, "Email Verification", emailBody); err != nil {
		// Account stays usable; the user can request a re-send later.
		logrus.WithError(err).Error("Failed to send verification email")
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// VerifyEmail marks the account holding the token as verified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("invalid or expired verification token")
	}

	update := map[string]interface{}{
		"is_verified":  true,
		"verify_token": "",
	}
	if err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to update user verification status: %v", err)
	}
	return nil
}

// AuthenticateUser verifies credentials and returns the matching user.
func (s *UserService) AuthenticateUser(ctx context.Context, userEmail, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	return user, nil
}

// GetUser fetches a user by hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ProfileUpdate carries the profile fields a user may change.
type ProfileUpdate struct {
	Name          *string   `json:"name,omitempty"`
	SkillsOffered *[]string `json:"skills_offered,omitempty"`
	SkillsWanted  *[]string `json:"skills_wanted,omitempty"`
	Availability  *string   `json:"availability,omitempty"`
}

// UpdateProfile applies the non-nil fields of the update to the user.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	update := map[string]interface{}{}
	if upd.Name != nil {
		update["name"] = *upd.Name
	}
	if upd.SkillsOffered != nil {
		update["skills_offered"] = *upd.SkillsOffered
	}
	if upd.SkillsWanted != nil {
		update["skills_wanted"] = *upd.SkillsWanted
	}
	if upd.Availability != nil {
		update["availability"] = *upd.Availability
	}

	if len(update) > 0 {
		if err := s.repo.UpdateUser(ctx, id, update); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeactivateUser flags the account inactive. Inactive users stop receiving
// new swap requests and disappear from search and the leaderboard.
func (s *UserService) DeactivateUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.UpdateUser(ctx, id, map[string]interface{}{"is_active": false}); err != nil {
		return err
	}

	if s.ratingCache != nil {
		if err := s.ratingCache.RemoveUser(ctx, id.Hex()); err != nil {
			logrus.WithError(err).Warn("Failed to remove user from leaderboard")
		}
	}

	logrus.WithField("userID", id.Hex()).Info("User deactivated")
	return nil
}

// SearchUsersBySkill finds active users offering a skill.
func (s *UserService) SearchUsersBySkill(ctx context.Context, skill string) ([]models.PublicUser, error) {
	users, err := s.repo.SearchBySkill(ctx, skill)
	if err != nil {
		return nil, err
	}

	results := make([]models.PublicUser, 0, len(users))
	for i := range users {
		results = append(results, users[i].Public())
	}
	return results, nil
}

// GetTopRated returns the highest-rated active users, preferring the Redis
// leaderboard and falling back to Mongo when the cache is cold or down.
func (s *UserService) GetTopRated(ctx context.Context, limit int64) ([]models.User, error) {
	if limit < 1 {
		limit = 10
	}

	if s.ratingCache != nil {
		ids, err := s.ratingCache.TopRated(ctx, limit)
		if err != nil {
			logrus.WithError(err).Warn("Leaderboard read failed, falling back to database")
		} else if len(ids) > 0 {
			objIDs := make([]primitive.ObjectID, 0, len(ids))
			for _, id := range ids {
				objID, err := primitive.ObjectIDFromHex(id)
				if err != nil {
					continue
				}
				objIDs = append(objIDs, objID)
			}

			users, err := s.repo.GetUsersByIDs(ctx, objIDs)
			if err != nil {
				return nil, err
			}

			// GetUsersByIDs does not preserve order; restore leaderboard rank.
			byID := make(map[primitive.ObjectID]models.User, len(users))
			for i := range users {
				byID[users[i].ID] = users[i]
			}
			ordered := make([]models.User, 0, len(objIDs))
			for _, id := range objIDs {
				if u, ok := byID[id]; ok && u.IsActive {
					ordered = append(ordered, u)
				}
			}
			return ordered, nil
		}
	}

	return s.repo.GetTopRated(ctx, limit)
}

// GetAllUsers returns every account. Admin use only.
func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// UpdateLastActive stamps the user's last activity time.
func (s *UserService) UpdateLastActive(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.UpdateLastActive(ctx, id)
}
