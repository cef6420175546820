package projects

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
	Name       string `json:"name" binding:"required"`
	ClientName string `json:"client_name"`
	Status     string `json:"status"`
}

func (s *Service) Create(ctx context.Context, orgID string, in CreateInput) (Project, error) {
	if s == nil || s.Repo == nil {
		return Project{}, errors.New("projects service not configured")
	}
	status := Status(strings.ToLower(strings.TrimSpace(in.Status)))
	if status == "" {
		status = StatusLive
	}
	if !status.Valid() {
		return Project{}, fmt.Errorf("%w: status must be live, hold or completed", ErrInvalidInput)
	}
	p := Project{
		ID:         uuid.NewString(),
		OrgID:      strings.TrimSpace(orgID),
		Name:       strings.TrimSpace(in.Name),
		ClientName: strings.TrimSpace(in.ClientName),
		Status:     status,
		CreatedAt:  s.Now().UTC(),
	}
	if p.OrgID == "" || p.Name == "" {
		return Project{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, orgID string) ([]Project, error) {
	return s.Repo.List(ctx, orgID)
}

func (s *Service) CountByStatus(ctx context.Context, orgID string) (StatusCounts, error) {
	return s.Repo.CountByStatus(ctx, orgID)
}
