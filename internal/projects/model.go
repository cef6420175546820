package projects

import "time"

type Status string

const (
	StatusLive      Status = "live"
	StatusHold      Status = "hold"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusLive, StatusHold, StatusCompleted:
		return true
	}
	return false
}

type Project struct {
	ID         string    `json:"id"`
	OrgID      string    `json:"org_id"`
	Name       string    `json:"name"`
	ClientName string    `json:"client_name"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusCounts is the per-status breakdown shown on the dashboard.
type StatusCounts struct {
	Live      int `json:"live"`
	Hold      int `json:"hold"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

func (c *StatusCounts) add(s Status, n int) {
	switch s {
	case StatusLive:
		c.Live += n
	case StatusHold:
		c.Hold += n
	case StatusCompleted:
		c.Completed += n
	}
	c.Total += n
}
