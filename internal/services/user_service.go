package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/models"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) Register(ctx context.Context, req *dtos.RegisterRequest) (*dtos.User, error) {
	email := normalizeEmail(req.Email)
	if taken, err := s.emailTaken(ctx, email, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{dtos.RoleUser}
	}
	u := models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
		Status:       dtos.UserOffline,
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	v := UserView(u)
	return &v, nil
}

// Authenticate checks credentials and marks the user Online. Unknown email
// and wrong password return the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*dtos.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.DB.WithContext(ctx).Model(&u).Update("status", dtos.UserOnline).Error; err != nil {
		return nil, err
	}
	u.Status = dtos.UserOnline
	v := UserView(u)
	return &v, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (*dtos.User, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v := UserView(*u)
	return &v, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, req *dtos.UpdateProfileRequest) (*dtos.User, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		u.FullName = name
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if email != u.Email {
			taken, err := s.emailTaken(ctx, email, u.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
			u.Email = email
		}
	}

	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	v := UserView(*u)
	return &v, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, id string, req *dtos.UpdatePasswordRequest) error {
	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.DB.WithContext(ctx).Model(u).Update("password_hash", string(hash)).Error
}

func (s *UserService) List(ctx context.Context) ([]dtos.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]dtos.User, 0, len(users))
	for _, u := range users {
		out = append(out, UserView(u))
	}
	return out, nil
}

// SetPrivilege replaces the user's roles with exactly one role.
func (s *UserService) SetPrivilege(ctx context.Context, id string, roles []string) (*dtos.User, error) {
	if len(roles) != 1 || !validRole(roles[0]) {
		return nil, fmt.Errorf("%w: exactly one of Admin, Manager, User is required", ErrInvalidInput)
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Roles = []string{roles[0]}
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	v := UserView(*u)
	return &v, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) find(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *UserService) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	q := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validRole(r string) bool {
	switch r {
	case dtos.RoleAdmin, dtos.RoleManager, dtos.RoleUser:
		return true
	}
	return false
}
