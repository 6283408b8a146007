// ABOUTME: Handlers for job-posting endpoints
// ABOUTME: Job detail responses include the description rendered as HTML

package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/wfconnect/marketplace/internal/jobs"
)

// descriptionMarkdown renders job descriptions written in Markdown.
var descriptionMarkdown = goldmark.New()

// jobResponse is the wire shape of a job posting.
type jobResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Budget      float64   `json:"budget"`
	Skills      []string  `json:"skills"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	OwnerName   string    `json:"ownerName"`
	OwnerPhoto  string    `json:"ownerPhoto,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Set on detail responses only
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
}

func toJobResponse(j *jobs.Job) jobResponse {
	return jobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Category:    j.Category,
		Budget:      j.Budget,
		Skills:      j.Skills,
		Status:      string(j.Status),
		OwnerID:     j.OwnerID,
		OwnerName:   j.OwnerName,
		OwnerPhoto:  j.OwnerPhoto,
		CreatedAt:   j.CreatedAt,
	}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listed := s.jobs.ListJobs(jobs.Filter{
		Category: q.Get("category"),
		Skill:    q.Get("skill"),
		Query:    q.Get("q"),
		OwnerID:  q.Get("owner"),
	})

	result := make([]jobResponse, 0, len(listed))
	for _, j := range listed {
		result = append(result, toJobResponse(j))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Budget      float64  `json:"budget"`
		Skills      []string `json:"skills"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	job, err := s.jobs.CreateJob(jobs.Input{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
		Skills:      req.Skills,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toJobResponse(job))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.GetJob(chi.URLParam(r, "jobID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := toJobResponse(job)
	var rendered bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(job.Description), &rendered); err != nil {
		s.logger.Warn("rendering job description", "job_id", job.ID, "error", err)
	} else {
		resp.DescriptionHTML = rendered.String()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Budget      *float64 `json:"budget"`
		Skills      []string `json:"skills"`
		Status      *string  `json:"status"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	update := jobs.Update{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
		Skills:      req.Skills,
	}
	if req.Status != nil {
		status := jobs.Status(*req.Status)
		update.Status = &status
	}

	job, err := s.jobs.UpdateJob(chi.URLParam(r, "jobID"), update)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.jobs.DeleteJob(chi.URLParam(r, "jobID")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJobCategories(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, jobs.Categories())
}

func (s *Server) handleJobSkills(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, jobs.Skills())
}
