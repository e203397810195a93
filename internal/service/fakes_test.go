package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.ID == id })
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.Email == email })
}

func (s *fakeUserStore) GetByProvider(ctx context.Context, provider, providerUserID string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool {
		return u.Provider == provider && u.ProviderUserID == providerUserID
	})
}

func (s *fakeUserStore) ConsumeEnergy(ctx context.Context, userID string, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return 0, store.ErrUserNotFound
	}
	energy, err := domain.SpendEnergy(u.Energy, amount)
	if err != nil {
		return 0, err
	}
	u.Energy = energy
	return energy, nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

type progressKey struct{ user, lesson string }

type fakeProgressStore struct {
	mu        sync.Mutex
	records   map[progressKey]domain.UserProgress
	stats     map[string]domain.UserStats
	courseOf  map[string]string
	upsertErr error
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		records:  make(map[progressKey]domain.UserProgress),
		stats:    make(map[string]domain.UserStats),
		courseOf: make(map[string]string),
	}
}

func (s *fakeProgressStore) Upsert(ctx context.Context, p *domain.UserProgress) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	key := progressKey{p.UserID, p.LessonID}
	stored := *p
	if existing, ok := s.records[key]; ok {
		stored.ID = existing.ID
	}
	s.records[key] = stored
	return &stored, nil
}

func (s *fakeProgressStore) GetForLesson(ctx context.Context, userID, lessonID string) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[progressKey{userID, lessonID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	return &p, nil
}

func (s *fakeProgressStore) ListForCourse(ctx context.Context, userID, courseID string) ([]domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.UserProgress{}
	for key, p := range s.records {
		if key.user == userID && s.courseOf[key.lesson] == courseID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProgressStore) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats[userID]
	if stats.Streak != nil {
		streak := *stats.Streak
		stats.Streak = &streak
	}
	return &stats, nil
}

func (s *fakeProgressStore) SaveStats(ctx context.Context, userID string, stats *domain.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *stats
	if stats.Streak != nil {
		streak := *stats.Streak
		saved.Streak = &streak
	}
	s.stats[userID] = saved
	return nil
}

func (s *fakeProgressStore) WithTx(tx *sql.Tx) store.ProgressStore { return s }

// newTxDB returns a sqlmock database expecting n transactions that commit
// and m that roll back, in that order.
func newTxDB(t *testing.T, commits, rollbacks int) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	for i := 0; i < commits; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	for i := 0; i < rollbacks; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db
}
