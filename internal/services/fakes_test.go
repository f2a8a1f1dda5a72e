package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/skillswap/skillswap-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes backing the service tests.

type fakeSwapStore struct {
	mu    sync.Mutex
	swaps map[primitive.ObjectID]models.SwapRequest
	clock time.Time
}

var _ SwapStore = (*fakeSwapStore)(nil)

func newFakeSwapStore() *fakeSwapStore {
	return &fakeSwapStore{
		swaps: make(map[primitive.ObjectID]models.SwapRequest),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeSwapStore) CreateSwapRequest(_ context.Context, req *models.SwapRequest) (*models.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clock = f.clock.Add(time.Second)
	req.ID = primitive.NewObjectID()
	req.Status = models.SwapStatusPending
	req.CreatedAt = f.clock
	req.UpdatedAt = f.clock
	f.swaps[req.ID] = *req
	return req, nil
}

func (f *fakeSwapStore) GetSwapRequestByID(_ context.Context, id primitive.ObjectID) (*models.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.swaps[id]
	if !ok {
		return nil, nil
	}
	copied := req
	return &copied, nil
}

func (f *fakeSwapStore) FindPendingRequest(_ context.Context, requesterID, recipientID primitive.ObjectID, skillRequested string) (*models.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, req := range f.swaps {
		if req.RequesterID == requesterID && req.RecipientID == recipientID &&
			req.SkillRequested == skillRequested && req.Status == models.SwapStatusPending {
			copied := req
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSwapStore) FindSwapRequests(_ context.Context, filter models.SwapRequestFilter) ([]models.SwapRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.SwapRequest
	for _, req := range f.swaps {
		switch filter.Type {
		case "sent":
			if req.RequesterID != filter.UserID {
				continue
			}
		case "received":
			if req.RecipientID != filter.UserID {
				continue
			}
		default:
			if req.RequesterID != filter.UserID && req.RecipientID != filter.UserID {
				continue
			}
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		matched = append(matched, req)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []models.SwapRequest{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeSwapStore) FindScheduledBetween(_ context.Context, from, to time.Time) ([]models.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.SwapRequest
	for _, req := range f.swaps {
		if req.Status == models.SwapStatusAccepted &&
			req.ScheduledDate.After(from) && !req.ScheduledDate.After(to) {
			matched = append(matched, req)
		}
	}
	return matched, nil
}

func (f *fakeSwapStore) UpdateSwapRequest(_ context.Context, id primitive.ObjectID, req *models.SwapRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	req.UpdatedAt = f.clock
	f.swaps[id] = *req
	return nil
}

func (f *fakeSwapStore) DeleteSwapRequest(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.swaps, id)
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

var _ UserStore = (*fakeUserStore)(nil)

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUserStore) addUser(name string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Email:    name + "@example.com",
		Role:     "user",
		IsActive: true,
	}
	f.users[user.ID] = user
	return &user
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.ID = primitive.NewObjectID()
	f.users[user.ID] = *user
	return user, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByVerificationToken(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.VerifyToken == token && token != "" {
			copied := user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil
	}
	if v, ok := update["name"].(string); ok {
		user.Name = v
	}
	if v, ok := update["is_active"].(bool); ok {
		user.IsActive = v
	}
	if v, ok := update["is_verified"].(bool); ok {
		user.IsVerified = v
	}
	if v, ok := update["verify_token"].(string); ok {
		user.VerifyToken = v
	}
	if v, ok := update["skills_offered"].([]string); ok {
		user.SkillsOffered = v
	}
	if v, ok := update["skills_wanted"].([]string); ok {
		user.SkillsWanted = v
	}
	if v, ok := update["availability"].(string); ok {
		user.Availability = v
	}
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) UpdateRating(_ context.Context, id primitive.ObjectID, average float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil
	}
	user.Rating = models.Rating{Average: average, Count: count}
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) UpdateLastActive(_ context.Context, id primitive.ObjectID) error {
	return nil
}

func (f *fakeUserStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var users []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserStore) SearchBySkill(_ context.Context, skill string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var users []models.User
	for _, user := range f.users {
		if !user.IsActive {
			continue
		}
		for _, s := range user.SkillsOffered {
			if s == skill {
				users = append(users, user)
				break
			}
		}
	}
	return users, nil
}

func (f *fakeUserStore) GetTopRated(_ context.Context, limit int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var users []models.User
	for _, user := range f.users {
		if user.IsActive && user.Rating.Count > 0 {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Rating.Average > users[j].Rating.Average
	})
	if int64(len(users)) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (f *fakeUserStore) GetAllUsers(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var users []*models.User
	for _, user := range f.users {
		copied := user
		users = append(users, &copied)
	}
	return users, nil
}

type fakeFeedbackStore struct {
	mu       sync.Mutex
	feedback []models.Feedback
}

var _ FeedbackStore = (*fakeFeedbackStore)(nil)

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{}
}

// CreateFeedback enforces the unique (swap_request, reviewer) index the Mongo
// repository creates, so a raced duplicate insert fails here too.
func (f *fakeFeedbackStore) CreateFeedback(_ context.Context, fb *models.Feedback) (*models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.feedback {
		if existing.SwapRequestID == fb.SwapRequestID && existing.ReviewerID == fb.ReviewerID {
			return nil, errors.New("duplicate key error: swap_request, reviewer")
		}
	}

	fb.ID = primitive.NewObjectID()
	fb.CreatedAt = time.Now()
	f.feedback = append(f.feedback, *fb)
	return fb, nil
}

func (f *fakeFeedbackStore) GetBySwapAndReviewer(_ context.Context, swapID, reviewerID primitive.ObjectID) (*models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fb := range f.feedback {
		if fb.SwapRequestID == swapID && fb.ReviewerID == reviewerID {
			copied := fb
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeFeedbackStore) GetByReviewee(_ context.Context, revieweeID primitive.ObjectID) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Feedback
	for _, fb := range f.feedback {
		if fb.RevieweeID == revieweeID {
			matched = append(matched, fb)
		}
	}
	return matched, nil
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []models.Notification
}

var _ NotificationStore = (*fakeNotificationStore)(nil)

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{}
}

func (f *fakeNotificationStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = time.Now()
	notif.ExpiresAt = notif.CreatedAt.Add(7 * 24 * time.Hour)
	f.notifications = append(f.notifications, *notif)
	return nil
}

func (f *fakeNotificationStore) GetUserNotifications(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func (f *fakeNotificationStore) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) DeleteNotification(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.notifications[:0]
	for _, n := range f.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	f.notifications = kept
	return nil
}

func (f *fakeNotificationStore) GetLatestNotificationByType(_ context.Context, userID primitive.ObjectID, notifType string, targetID primitive.ObjectID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.notifications) - 1; i >= 0; i-- {
		n := f.notifications[i]
		if n.UserID == userID && n.Type == notifType && n.TargetID != nil && *n.TargetID == targetID {
			copied := n
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationStore) DeleteExpiredNotifications(_ context.Context) error {
	return nil
}

// fakeRatingCache keeps the sorted-set semantics of the Redis leaderboard in
// a map: highest average first, member set by SetUserRating.
type fakeRatingCache struct {
	mu      sync.Mutex
	scores  map[string]float64
	lookupE error
}

var _ RatingCache = (*fakeRatingCache)(nil)

func newFakeRatingCache() *fakeRatingCache {
	return &fakeRatingCache{scores: make(map[string]float64)}
}

func (f *fakeRatingCache) SetUserRating(_ context.Context, userID string, average float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scores[userID] = average
	return nil
}

func (f *fakeRatingCache) RemoveUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.scores, userID)
	return nil
}

func (f *fakeRatingCache) TopRated(_ context.Context, limit int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lookupE != nil {
		return nil, f.lookupE
	}

	ids := make([]string, 0, len(f.scores))
	for id := range f.scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return f.scores[ids[i]] > f.scores[ids[j]]
	})
	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
