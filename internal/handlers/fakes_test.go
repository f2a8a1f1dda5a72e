package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/skillswap/skillswap-api/internal/models"
	"github.com/skillswap/skillswap-api/internal/services"
	jwtutil "github.com/skillswap/skillswap-api/pkg/jwt"
	"github.com/skillswap/skillswap-api/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Minimal in-memory stores for exercising the handlers end to end. Interface
// methods the handler flows never touch are inherited from the embedded nil
// interface and would panic if reached.

type memSwapStore struct {
	services.SwapStore
	swaps map[primitive.ObjectID]models.SwapRequest
	clock time.Time
}

func newMemSwapStore() *memSwapStore {
	return &memSwapStore{
		swaps: make(map[primitive.ObjectID]models.SwapRequest),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memSwapStore) CreateSwapRequest(_ context.Context, req *models.SwapRequest) (*models.SwapRequest, error) {
	m.clock = m.clock.Add(time.Second)
	req.ID = primitive.NewObjectID()
	req.Status = models.SwapStatusPending
	req.CreatedAt = m.clock
	req.UpdatedAt = m.clock
	m.swaps[req.ID] = *req
	return req, nil
}

func (m *memSwapStore) GetSwapRequestByID(_ context.Context, id primitive.ObjectID) (*models.SwapRequest, error) {
	req, ok := m.swaps[id]
	if !ok {
		return nil, nil
	}
	copied := req
	return &copied, nil
}

func (m *memSwapStore) FindPendingRequest(_ context.Context, requesterID, recipientID primitive.ObjectID, skillRequested string) (*models.SwapRequest, error) {
	for _, req := range m.swaps {
		if req.RequesterID == requesterID && req.RecipientID == recipientID &&
			req.SkillRequested == skillRequested && req.Status == models.SwapStatusPending {
			copied := req
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memSwapStore) FindSwapRequests(_ context.Context, filter models.SwapRequestFilter) ([]models.SwapRequest, int64, error) {
	var matched []models.SwapRequest
	for _, req := range m.swaps {
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

func (m *memSwapStore) UpdateSwapRequest(_ context.Context, id primitive.ObjectID, req *models.SwapRequest) error {
	m.swaps[id] = *req
	return nil
}

func (m *memSwapStore) DeleteSwapRequest(_ context.Context, id primitive.ObjectID) error {
	delete(m.swaps, id)
	return nil
}

type memUserStore struct {
	services.UserStore
	users map[primitive.ObjectID]models.User

	// lookupErr, when set, makes lookups fail to simulate a store outage.
	lookupErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (m *memUserStore) addUser(name string) *models.User {
	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Email:    name + "@example.com",
		Role:     "user",
		IsActive: true,
	}
	m.users[user.ID] = user
	return &user
}

func (m *memUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := user
	return &copied, nil
}

func (m *memUserStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *memUserStore) UpdateRating(_ context.Context, id primitive.ObjectID, average float64, count int) error {
	user, ok := m.users[id]
	if !ok {
		return nil
	}
	user.Rating = models.Rating{Average: average, Count: count}
	m.users[id] = user
	return nil
}

type memFeedbackStore struct {
	services.FeedbackStore
	feedback []models.Feedback
}

func (m *memFeedbackStore) CreateFeedback(_ context.Context, fb *models.Feedback) (*models.Feedback, error) {
	fb.ID = primitive.NewObjectID()
	fb.CreatedAt = time.Now()
	m.feedback = append(m.feedback, *fb)
	return fb, nil
}

func (m *memFeedbackStore) GetBySwapAndReviewer(_ context.Context, swapID, reviewerID primitive.ObjectID) (*models.Feedback, error) {
	for _, fb := range m.feedback {
		if fb.SwapRequestID == swapID && fb.ReviewerID == reviewerID {
			copied := fb
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memFeedbackStore) GetByReviewee(_ context.Context, revieweeID primitive.ObjectID) ([]models.Feedback, error) {
	var matched []models.Feedback
	for _, fb := range m.feedback {
		if fb.RevieweeID == revieweeID {
			matched = append(matched, fb)
		}
	}
	return matched, nil
}

type memNotificationStore struct {
	services.NotificationStore
	notifications []models.Notification
}

func (m *memNotificationStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = time.Now()
	m.notifications = append(m.notifications, *notif)
	return nil
}

func (m *memNotificationStore) GetUserNotifications(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var matched []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

// testEnv bundles the fake-backed handlers used across the handler tests.
type testEnv struct {
	swaps         *memSwapStore
	users         *memUserStore
	notifications *memNotificationStore
	swapHandler   *SwapHandler
	fbHandler     *FeedbackHandler
}

func newTestEnv() *testEnv {
	swaps := newMemSwapStore()
	users := newMemUserStore()
	feedback := &memFeedbackStore{}
	notifications := &memNotificationStore{}

	swapService := services.NewSwapService(swaps, users)
	feedbackService := services.NewFeedbackService(feedback, swaps, users, nil)
	notificationService := services.NewNotificationService(notifications, swaps, nil)

	return &testEnv{
		swaps:         swaps,
		users:         users,
		notifications: notifications,
		swapHandler:   NewSwapHandler(swapService, notificationService),
		fbHandler:     NewFeedbackHandler(feedbackService, notificationService),
	}
}

// authed attaches auth claims for userID to the request context.
func authed(r *http.Request, userID primitive.ObjectID) *http.Request {
	claims := &jwtutil.Claims{UserID: userID.Hex(), Role: "user"}
	return r.WithContext(middleware.ContextWithUser(r.Context(), claims))
}
