package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/99minutos/authgate/internal/core/domain"
)

// userRecord maps the users table:
//
//	users(id PK autoincrement, username unique not null, secret not null,
//	      role check in (admin, user) not null, created_at)
type userRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"uniqueIndex;not null"`
	Secret    string    `gorm:"not null"`
	Role      string    `gorm:"not null;check:chk_users_role,role IN ('admin','user')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Secret:    r.Secret,
		Role:      domain.Role(r.Role),
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// UserStore is the relational CredentialStore. Every call runs against the
// pool; nothing is cached.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) VerifyCredentials(ctx context.Context, username, secret string) (*domain.User, error) {
	return s.first(ctx, "username = ? AND secret = ?", username, secret)
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	var recs []userRecord
	if err := s.db.WithContext(ctx).Order("username ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

// UpdateRole does not inspect RowsAffected; an unknown username is a no-op.
func (s *UserStore) UpdateRole(ctx context.Context, username string, role domain.Role) error {
	err := s.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("username = ?", username).
		Update("role", string(role)).Error
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	rec := userRecord{
		Username: user.Username,
		Secret:   user.Secret,
		Role:     string(role),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return rec.toDomain(), nil
}

// Ping checks that the database answers.
func (s *UserStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *UserStore) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
