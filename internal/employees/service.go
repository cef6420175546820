package employees

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
	EmpCode     string `json:"emp_code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Designation string `json:"designation"`
}

func (s *Service) Create(ctx context.Context, orgID string, in CreateInput) (Employee, error) {
	if s == nil || s.Repo == nil {
		return Employee{}, errors.New("employees service not configured")
	}
	emp := Employee{
		ID:          uuid.NewString(),
		OrgID:       strings.TrimSpace(orgID),
		EmpCode:     strings.TrimSpace(in.EmpCode),
		Name:        strings.TrimSpace(in.Name),
		Designation: strings.TrimSpace(in.Designation),
		CreatedAt:   s.Now().UTC(),
	}
	if emp.OrgID == "" || emp.EmpCode == "" || emp.Name == "" {
		return Employee{}, fmt.Errorf("%w: emp_code and name are required", ErrInvalidInput)
	}
	if err := s.Repo.Create(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) Get(ctx context.Context, orgID, id string) (Employee, error) {
	if strings.TrimSpace(id) == "" {
		return Employee{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, orgID, id)
}

// Resolve finds an employee by internal id first, then by employee code.
func (s *Service) Resolve(ctx context.Context, orgID, ref string) (Employee, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Employee{}, fmt.Errorf("%w: employee reference is required", ErrInvalidInput)
	}
	emp, err := s.Repo.GetByID(ctx, orgID, ref)
	if err == nil {
		return emp, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Employee{}, err
	}
	return s.Repo.GetByCode(ctx, orgID, ref)
}

func (s *Service) List(ctx context.Context, orgID string, filter Filter) ([]Employee, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.EmpCode = strings.TrimSpace(filter.EmpCode)
	filter.Name = strings.TrimSpace(filter.Name)
	return s.Repo.List(ctx, orgID, filter)
}

func (s *Service) Count(ctx context.Context, orgID string) (int, error) {
	return s.Repo.Count(ctx, orgID)
}
