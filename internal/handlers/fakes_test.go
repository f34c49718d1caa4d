package handlers

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hungertracker/hungerd/internal/models"
	"github.com/hungertracker/hungerd/internal/repositories"
)

type inMemoryUserStore struct {
	users map[string]models.User // keyed by id

	// profiles, when set, receives a seeded row for every created user,
	// mirroring the transactional create-with-profile write.
	profiles   *inMemoryProfileStore
	profileErr error
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: make(map[string]models.User)}
}

func (s *inMemoryUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Phone == user.Phone || existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *inMemoryUserStore) CreateWithProfile(ctx context.Context, user models.User) error {
	if s.profileErr != nil {
		// The transaction rolls back: neither row is written.
		return s.profileErr
	}
	if err := s.Create(ctx, user); err != nil {
		return err
	}
	if s.profiles != nil {
		return s.profiles.Create(ctx, user.ID)
	}
	return nil
}

func (s *inMemoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *inMemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) FindByPhone(_ context.Context, phone string) (models.User, error) {
	for _, user := range s.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

type inMemoryProfileStore struct {
	profiles map[string]models.Profile
}

func newInMemoryProfileStore() *inMemoryProfileStore {
	return &inMemoryProfileStore{profiles: make(map[string]models.Profile)}
}

func (s *inMemoryProfileStore) Create(_ context.Context, userID string) error {
	if _, ok := s.profiles[userID]; !ok {
		s.profiles[userID] = models.Profile{UserID: userID}
	}
	return nil
}

func (s *inMemoryProfileStore) Get(_ context.Context, userID string) (models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, repositories.ErrNotFound
	}
	return profile, nil
}

func (s *inMemoryProfileStore) Update(_ context.Context, profile models.Profile) error {
	if _, ok := s.profiles[profile.UserID]; !ok {
		return repositories.ErrNotFound
	}
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *inMemoryProfileStore) SetImage(_ context.Context, userID, imageURL string) error {
	profile, ok := s.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	profile.ImageURL = imageURL
	s.profiles[userID] = profile
	return nil
}

func (s *inMemoryProfileStore) SetHungry(_ context.Context, userID string, hungry bool) error {
	profile, ok := s.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	profile.IsHungry = hungry
	s.profiles[userID] = profile
	return nil
}

func (s *inMemoryProfileStore) TouchLastAte(_ context.Context, userID string) error {
	profile, ok := s.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now().UTC()
	profile.LastAte = &now
	s.profiles[userID] = profile
	return nil
}

// fakeSessionManager issues predictable tokens keyed by a counter.
type fakeSessionManager struct {
	issued   int
	revoked  []string
	sessions map[string]string // access token -> user id
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: make(map[string]string)}
}

func (m *fakeSessionManager) Issue(_ context.Context, userID string) (models.SessionTokens, error) {
	m.issued++
	access := fmt.Sprintf("access-%d", m.issued)
	m.sessions[access] = userID
	now := time.Now().UTC()
	return models.SessionTokens{
		AccessToken:      access,
		AccessExpiresAt:  now.Add(15 * time.Minute),
		RefreshToken:     fmt.Sprintf("refresh-%d", m.issued),
		RefreshExpiresAt: now.Add(24 * time.Hour),
	}, nil
}

func (m *fakeSessionManager) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	return m.Issue(ctx, "refreshed-user")
}

func (m *fakeSessionManager) Validate(_ context.Context, accessToken string) (string, error) {
	userID, ok := m.sessions[accessToken]
	if !ok {
		return "", fmt.Errorf("unknown access token")
	}
	return userID, nil
}

func (m *fakeSessionManager) Revoke(_ context.Context, refreshToken string) {
	m.revoked = append(m.revoked, refreshToken)
}

// fakeVerifier records verification traffic without sending SMS.
type fakeVerifier struct {
	requested  []string
	code       string
	verified   map[string]bool
	consumed   []string
	confirmErr error
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{code: "123456", verified: make(map[string]bool)}
}

func (v *fakeVerifier) RequestCode(_ context.Context, phone string) error {
	v.requested = append(v.requested, phone)
	return nil
}

func (v *fakeVerifier) Confirm(_ context.Context, phone, code string) error {
	if v.confirmErr != nil {
		return v.confirmErr
	}
	v.verified[phone] = true
	return nil
}

func (v *fakeVerifier) Verified(phone string) bool {
	return v.verified[phone]
}

func (v *fakeVerifier) ConsumeGrant(phone string) {
	v.consumed = append(v.consumed, phone)
	delete(v.verified, phone)
}

type inMemoryFriendStore struct {
	friendships map[string]models.Friendship
	createErr   error
}

func newInMemoryFriendStore() *inMemoryFriendStore {
	return &inMemoryFriendStore{friendships: make(map[string]models.Friendship)}
}

func (s *inMemoryFriendStore) CreateRequest(_ context.Context, friendship models.Friendship) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.friendships {
		samePair := (existing.Sender == friendship.Sender && existing.Receiver == friendship.Receiver) ||
			(existing.Sender == friendship.Receiver && existing.Receiver == friendship.Sender)
		if samePair {
			return repositories.ErrConflict
		}
	}
	s.friendships[friendship.ID] = friendship
	return nil
}

func (s *inMemoryFriendStore) FindByID(_ context.Context, id string) (models.Friendship, error) {
	friendship, ok := s.friendships[id]
	if !ok {
		return models.Friendship{}, repositories.ErrNotFound
	}
	return friendship, nil
}

func (s *inMemoryFriendStore) ListForUser(_ context.Context, userID string) ([]models.Friendship, error) {
	var out []models.Friendship
	for _, f := range s.friendships {
		if f.Sender == userID || f.Receiver == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *inMemoryFriendStore) AcceptedFriendIDs(_ context.Context, userID string) ([]string, error) {
	var out []string
	for _, f := range s.friendships {
		if f.Status != models.FriendshipAccepted {
			continue
		}
		switch userID {
		case f.Sender:
			out = append(out, f.Receiver)
		case f.Receiver:
			out = append(out, f.Sender)
		}
	}
	return out, nil
}

func (s *inMemoryFriendStore) UpdateStatus(_ context.Context, friendshipID, status string) error {
	friendship, ok := s.friendships[friendshipID]
	if !ok {
		return repositories.ErrNotFound
	}
	friendship.Status = status
	now := time.Now().UTC()
	friendship.RespondedAt = &now
	s.friendships[friendshipID] = friendship
	return nil
}

type inMemoryPostStore struct {
	posts    []models.Post
	comments map[string][]models.Comment
}

func newInMemoryPostStore() *inMemoryPostStore {
	return &inMemoryPostStore{comments: make(map[string][]models.Comment)}
}

func (s *inMemoryPostStore) Create(_ context.Context, post models.Post) error {
	s.posts = append(s.posts, post)
	return nil
}

func (s *inMemoryPostStore) ListFeed(_ context.Context, userID string) ([]models.Post, error) {
	return s.posts, nil
}

func (s *inMemoryPostStore) ListComments(_ context.Context, postID string) ([]models.Comment, error) {
	return s.comments[postID], nil
}

func (s *inMemoryPostStore) AddComment(_ context.Context, comment models.Comment) error {
	s.comments[comment.PostID] = append(s.comments[comment.PostID], comment)
	return nil
}

type inMemoryLocationStore struct {
	shares map[string]models.LocationShare
}

func newInMemoryLocationStore() *inMemoryLocationStore {
	return &inMemoryLocationStore{shares: make(map[string]models.LocationShare)}
}

func (s *inMemoryLocationStore) Upsert(_ context.Context, share models.LocationShare) error {
	existing, ok := s.shares[share.UserID]
	if ok {
		share.SharingMode = existing.SharingMode
		share.AllowList = existing.AllowList
	} else if share.SharingMode == "" {
		share.SharingMode = models.SharingAllFriends
	}
	s.shares[share.UserID] = share
	return nil
}

func (s *inMemoryLocationStore) Get(_ context.Context, userID string) (models.LocationShare, error) {
	share, ok := s.shares[userID]
	if !ok {
		return models.LocationShare{}, repositories.ErrNotFound
	}
	return share, nil
}

func (s *inMemoryLocationStore) SetSharing(_ context.Context, userID, mode string, allowList []string) error {
	share, ok := s.shares[userID]
	if !ok {
		share = models.LocationShare{UserID: userID}
	}
	share.SharingMode = mode
	share.AllowList = allowList
	s.shares[userID] = share
	return nil
}

func (s *inMemoryLocationStore) VisibleToUser(_ context.Context, viewerID string, friendIDs []string) ([]models.LocationShare, error) {
	allowed := make(map[string]bool, len(friendIDs))
	for _, id := range friendIDs {
		allowed[id] = true
	}

	var out []models.LocationShare
	for _, share := range s.shares {
		if !allowed[share.UserID] {
			continue
		}
		switch share.SharingMode {
		case models.SharingAllFriends:
			out = append(out, share)
		case models.SharingSelectFriends:
			for _, id := range share.AllowList {
				if id == viewerID {
					out = append(out, share)
					break
				}
			}
		}
	}
	return out, nil
}

type inMemoryNotificationStore struct {
	notifications []models.Notification
}

func (s *inMemoryNotificationStore) ListForUser(_ context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *inMemoryNotificationStore) MarkRead(_ context.Context, notificationID, userID string) error {
	for i, n := range s.notifications {
		if n.ID == notificationID && n.UserID == userID {
			s.notifications[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

// recordingNotifier captures scheduled notifications synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	fanout []string // actor ids for NotifyFriends
	direct []models.Notification
}

func (n *recordingNotifier) NotifyFriends(_ context.Context, actorID, notificationType, content string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fanout = append(n.fanout, actorID)
	return nil
}

func (n *recordingNotifier) NotifyUser(_ context.Context, userID, notificationType, content string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.direct = append(n.direct, models.Notification{UserID: userID, Type: notificationType, Content: content})
	return nil
}

// memoryImageStore stores uploads in a map keyed by object key.
type memoryImageStore struct {
	objects map[string][]byte
}

func newMemoryImageStore() *memoryImageStore {
	return &memoryImageStore{objects: make(map[string][]byte)}
}

func (s *memoryImageStore) Save(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}
