package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB       Pinger
	Provider string
	Model    string
	Timeout  time.Duration
}

// NewService constructs a new health service. db may be nil when running on
// in-memory repositories.
func NewService(db Pinger, provider, model string) *Service {
	return &Service{DB: db, Provider: provider, Model: model, Timeout: 2 * time.Second}
}

type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Provider string `json:"llm_provider"`
	Model    string `json:"llm_model"`
}

// Status reports whether the service can reach its database.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Provider: s.Provider, Model: s.Model}
	if s.DB == nil {
		return st
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "unreachable"
		return st
	}
	st.Database = "ok"
	return st
}
