package staff

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
	"github.com/skadam/cafe/internal/interfaces"
)

// Service owns sub-user accounts, the store settings record, and the
// notification dispatch toggles.
type Service struct {
	mirror interfaces.StaffMirror
	logger logger.Logger

	mu            sync.Mutex
	users         []domain.SubUser
	settings      domain.StoreSettings
	notifications domain.NotificationSettings

	writes sync.WaitGroup
}

func NewService(mirror interfaces.StaffMirror, lgr logger.Logger) *Service {
	return &Service{
		mirror:        mirror,
		logger:        lgr,
		settings:      domain.DefaultStoreSettings(),
		notifications: domain.DefaultNotificationSettings(),
	}
}

func (s *Service) Load(ctx context.Context) error {
	users, ok, err := s.mirror.LoadSubUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sub-users: %w", err)
	}
	settings, err := s.mirror.LoadStoreSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load store settings: %w", err)
	}
	notifications, err := s.mirror.LoadNotificationSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load notification settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.users = users
	}
	if settings != nil {
		s.settings = *settings
	}
	if notifications != nil {
		s.notifications = *notifications
	}
	return nil
}

func (s *Service) SubUsers() []domain.SubUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SubUser, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Service) AddSubUser(username, password, name string) (domain.SubUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.SubUser{}, fmt.Errorf("username and password are required")
	}

	s.mu.Lock()
	for _, u := range s.users {
		if u.Active && u.Username == username {
			s.mu.Unlock()
			return domain.SubUser{}, domain.ErrDuplicateUsername
		}
	}
	user := domain.SubUser{
		ID:          uuid.NewString(),
		Username:    username,
		Password:    password,
		Name:        name,
		Permissions: domain.PermissionOrdersOnly,
		CreatedAt:   time.Now(),
		Active:      true,
	}
	s.users = append(s.users, user)
	snapshot := make([]domain.SubUser, len(s.users))
	copy(snapshot, s.users)
	s.mu.Unlock()

	s.saveUsers(snapshot)
	return user, nil
}

func (s *Service) UpdateSubUser(id string, patch domain.SubUserPatch) {
	s.mu.Lock()
	changed := false
	for i := range s.users {
		if s.users[i].ID == id {
			patch.Apply(&s.users[i])
			changed = true
			break
		}
	}
	snapshot := make([]domain.SubUser, len(s.users))
	copy(snapshot, s.users)
	s.mu.Unlock()

	if changed {
		s.saveUsers(snapshot)
	}
}

func (s *Service) DeleteSubUser(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			changed = true
			break
		}
	}
	snapshot := make([]domain.SubUser, len(s.users))
	copy(snapshot, s.users)
	s.mu.Unlock()

	if changed {
		s.saveUsers(snapshot)
	}
}

// Authenticate checks sub-user credentials against active accounts.
func (s *Service) Authenticate(username, password string) (domain.SubUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Active && u.Username == username && u.Password == password {
			return u, true
		}
	}
	return domain.SubUser{}, false
}

func (s *Service) StoreSettings() domain.StoreSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Service) UpdateStoreSettings(patch domain.StoreSettingsPatch) {
	s.mu.Lock()
	patch.Apply(&s.settings)
	settings := s.settings
	s.mu.Unlock()

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := s.mirror.SaveStoreSettings(context.Background(), settings); err != nil {
			s.logger.Error("store_settings_mirror_failed", "Mirror write failed", "", nil, err)
		}
	}()
}

func (s *Service) NotificationSettings() domain.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications
}

func (s *Service) UpdateNotificationSettings(patch domain.NotificationSettingsPatch) {
	s.mu.Lock()
	patch.Apply(&s.notifications)
	notifications := s.notifications
	s.mu.Unlock()

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := s.mirror.SaveNotificationSettings(context.Background(), notifications); err != nil {
			s.logger.Error("notification_settings_mirror_failed", "Mirror write failed", "", nil, err)
		}
	}()
}

func (s *Service) saveUsers(users []domain.SubUser) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := s.mirror.SaveSubUsers(context.Background(), users); err != nil {
			s.logger.Error("sub_user_mirror_failed", "Mirror write failed", "", nil, err)
		}
	}()
}

// Flush blocks until every pending mirror write has finished.
func (s *Service) Flush() {
	s.writes.Wait()
}
