package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("session not found")

// User is the identity subset the backend returns on login.
type User struct {
	ID          string
	DisplayName string
	Email       string
	Role        string
}

// Store owns every Session. Other components (guards, orchestrator, REST
// client) read sessions through it but never mutate them directly.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// Migrate creates the sessions table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Session{})
}

// Issue creates and persists a session for a freshly authenticated user.
func (s *Store) Issue(ctx context.Context, u User, token string) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role,
		Token:       token,
		CreatedAt:   now,
		LastSeenAt:  now,
	}
	sess.annotateFromToken()
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, err
	}
	return sess, nil
}

// Get hydrates a session by id. Sessions past their TTL are treated as gone.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var sess Session
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.ttl > 0 && time.Since(sess.LastSeenAt) > s.ttl {
		_ = s.Clear(ctx, id)
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Touch refreshes the sliding TTL window.
func (s *Store) Touch(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now().UTC()).Error
}

// Clear destroys a session. Used on logout and on the REST client's 401
// signal.
func (s *Store) Clear(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&Session{}, "id = ?", id).Error
}

// ClearExpired prunes sessions whose sliding window has lapsed. Returns the
// number of rows removed.
func (s *Store) ClearExpired(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.ttl)
	res := s.db.WithContext(ctx).Delete(&Session{}, "last_seen_at < ?", cutoff)
	return res.RowsAffected, res.Error
}
