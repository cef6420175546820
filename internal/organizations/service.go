package organizations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

type CreateInput struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// Create registers an organization. Codes are stored upper-cased and compared case-insensitively.
func (s *Service) Create(ctx context.Context, in CreateInput) (Organization, error) {
	if s == nil || s.Repo == nil {
		return Organization{}, errors.New("organizations service not configured")
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return Organization{}, fmt.Errorf("%w: code and name are required", ErrInvalidInput)
	}
	org := Organization{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, org); err != nil {
		return Organization{}, err
	}
	return org, nil
}

// Lookup validates an organization code, as used during signup.
func (s *Service) Lookup(ctx context.Context, code string) (Organization, error) {
	if s == nil || s.Repo == nil {
		return Organization{}, errors.New("organizations service not configured")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return Organization{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	return s.Repo.GetByCode(ctx, code)
}

// Exists reports whether id names a registered organization.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if s == nil || s.Repo == nil {
		return false, errors.New("organizations service not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return false, nil
	}
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
