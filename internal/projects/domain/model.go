package domain

import "time"

// Project is a unit of work people compete for. The assignee fields are
// only written by the assignment service.
type Project struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	AssigneeID   *string   `json:"assignee_id,omitempty"`
	AssigneeName *string   `json:"assignee_name,omitempty"`
	MyRank       *int      `json:"my_rank,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RankedProject is one line of a person's preference form: every project
// appears, Rank is nil where the person has not ranked it.
type RankedProject struct {
	ProjectID   int64  `json:"project_id"`
	ProjectName string `json:"project_name"`
	Rank        *int   `json:"rank"`
}

// Assignment is the persisted outcome for a single project.
type Assignment struct {
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	PersonID    *string `json:"person_id"`
	PersonName  *string `json:"person_name"`
}

const (
	TriggerAPI  = "api"
	TriggerCron = "cron"
	TriggerCLI  = "cli"

	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RecomputeRun records one pass of the assignment engine.
type RecomputeRun struct {
	RunID      string     `json:"run_id"`
	Trigger    string     `json:"trigger"`
	Status     string     `json:"status"`
	Projects   int        `json:"projects"`
	People     int        `json:"people"`
	Assigned   int        `json:"assigned"`
	MatrixSize int        `json:"matrix_size"`
	TotalCost  int        `json:"total_cost"`
	RealCost   int        `json:"real_cost"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Finished reports whether the run reached a terminal status.
func (r *RecomputeRun) Finished() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
