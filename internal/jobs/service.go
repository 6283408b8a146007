// ABOUTME: In-memory job-posting service for the marketplace
// ABOUTME: Clients publish proposals; edits and deletion are owner-only

package jobs

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfconnect/marketplace/internal/notify"
	"github.com/wfconnect/marketplace/internal/store"
)

// Service errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrJobNotFound      = errors.New("job not found")
	ErrNotOwner         = errors.New("not the job owner")
	ErrMissingFields    = errors.New("missing required fields")
)

// Status describes where a job posting is in its lifecycle.
type Status string

// Job statuses
const (
	StatusOpen      Status = "open"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
)

// Job is a published work proposal.
type Job struct {
	ID          string
	Title       string
	Description string
	Category    string
	Budget      float64
	Skills      []string
	Status      Status

	// Owner fields are denormalized at creation for display
	OwnerID    string
	OwnerName  string
	OwnerPhoto string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity resolves the acting user. Satisfied by auth.Service.
type Identity interface {
	CurrentUser() *store.User
}

// Service owns the in-memory collection of job postings. Like the
// conversation store, state is mutated synchronously under a single lock and
// does not outlive the process.
type Service struct {
	mu   sync.RWMutex
	jobs map[string]*Job

	identity Identity
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a job-posting service.
func NewService(identity Identity, notifier notify.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		jobs:     make(map[string]*Job),
		identity: identity,
		notifier: notifier,
		logger:   logger.With("component", "jobs"),
	}
}

// Input carries the fields of a new job posting.
type Input struct {
	Title       string
	Description string
	Category    string
	Budget      float64
	Skills      []string
}

// CreateJob publishes a new proposal owned by the current user. All fields
// are required and at least one skill must be selected.
func (s *Service) CreateJob(input Input) (*Job, error) {
	current := s.identity.CurrentUser()
	if current == nil {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Category) == "" ||
		input.Budget <= 0 || len(input.Skills) == 0 {
		return nil, ErrMissingFields
	}

	now := time.Now()
	job := &Job{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Budget:      input.Budget,
		Skills:      append([]string(nil), input.Skills...),
		Status:      StatusOpen,
		OwnerID:     current.ID,
		OwnerName:   current.Name,
		OwnerPhoto:  current.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	s.notifier.Notify("Éxito", "La propuesta se ha creado correctamente.")
	s.logger.Info("job created", "job_id", job.ID, "owner", job.OwnerID, "category", job.Category)
	return copyJob(job), nil
}

// Update carries the editable fields of a job. Nil fields are left unchanged.
type Update struct {
	Title       *string
	Description *string
	Category    *string
	Budget      *float64
	Skills      []string
	Status      *Status
}

// UpdateJob edits a posting. Only the owner may edit.
func (s *Service) UpdateJob(id string, update Update) (*Job, error) {
	current := s.identity.CurrentUser()
	if current == nil {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	if job.OwnerID != current.ID {
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, id)
	}

	if update.Title != nil {
		job.Title = *update.Title
	}
	if update.Description != nil {
		job.Description = *update.Description
	}
	if update.Category != nil {
		job.Category = *update.Category
	}
	if update.Budget != nil {
		job.Budget = *update.Budget
	}
	if update.Skills != nil {
		job.Skills = append([]string(nil), update.Skills...)
	}
	if update.Status != nil {
		job.Status = *update.Status
	}
	job.UpdatedAt = time.Now()

	s.logger.Info("job updated", "job_id", id)
	return copyJob(job), nil
}

// DeleteJob removes a posting. Only the owner may delete.
func (s *Service) DeleteJob(id string) error {
	current := s.identity.CurrentUser()
	if current == nil {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	job, ok := s.jobs[id]
	if ok && job.OwnerID != current.ID {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotOwner, id)
	}
	delete(s.jobs, id)
	s.mu.Unlock()

	if !ok {
		return ErrJobNotFound
	}
	s.notifier.Notify("Propuesta eliminada", "La propuesta ha sido eliminada correctamente.")
	s.logger.Info("job deleted", "job_id", id)
	return nil
}

// GetJob returns a copy of the posting, or ErrJobNotFound.
func (s *Service) GetJob(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return copyJob(job), nil
}

// Filter narrows ListJobs results. Zero values match everything.
type Filter struct {
	Category string
	Skill    string
	Query    string // substring of title or description, case-insensitive
	OwnerID  string
}

// ListJobs returns postings matching the filter, newest first.
func (s *Service) ListJobs(filter Filter) []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Job
	for _, job := range s.jobs {
		if !matches(job, filter) {
			continue
		}
		result = append(result, copyJob(job))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// matches applies every set filter field.
func matches(job *Job, filter Filter) bool {
	if filter.Category != "" && job.Category != filter.Category {
		return false
	}
	if filter.OwnerID != "" && job.OwnerID != filter.OwnerID {
		return false
	}
	if filter.Skill != "" {
		found := false
		for _, skill := range job.Skills {
			if strings.EqualFold(skill, filter.Skill) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Query != "" {
		needle := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(job.Title), needle) &&
			!strings.Contains(strings.ToLower(job.Description), needle) {
			return false
		}
	}
	return true
}

// copyJob returns a deep copy so callers cannot mutate stored state.
func copyJob(job *Job) *Job {
	result := *job
	result.Skills = append([]string(nil), job.Skills...)
	return &result
}
