package enquiries

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stats aggregates the enquiry collection for the dashboard endpoint.
type Stats struct {
	TotalEnquiries     int64           `json:"totalEnquiries"`
	NewEnquiries       int64           `json:"newEnquiries"`
	ContactedEnquiries int64           `json:"contactedEnquiries"`
	RecentEnquiries    []RecentEnquiry `json:"recentEnquiries"`
}

// RecentEnquiry is the trimmed-down shape listed in stats responses.
type RecentEnquiry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

const recentLimit = 5

// Repository defines the interface for enquiry storage
type Repository interface {
	Create(ctx context.Context, req *SubmitEnquiryRequest) (*Enquiry, error)
	GetByID(ctx context.Context, id string) (*Enquiry, error)
	Stats(ctx context.Context) (*Stats, error)
}

// InMemoryRepository keeps enquiries in memory. It backs tests and
// lets the server run without a database during local development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	enquiries map[string]*Enquiry
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		enquiries: make(map[string]*Enquiry),
	}
}

// Create validates the request and stores a new enquiry.
func (r *InMemoryRepository) Create(ctx context.Context, req *SubmitEnquiryRequest) (*Enquiry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	e := &Enquiry{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Requirement: req.Requirement,
		SubmittedAt: req.SubmittedAtOrNow(),
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	r.enquiries[e.ID] = e
	r.mu.Unlock()

	return e, nil
}

// GetByID retrieves an enquiry by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Enquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enquiries[id]
	if !ok {
		return nil, ErrEnquiryNotFound
	}

	return e, nil
}

// Stats aggregates counts and the most recent submissions.
func (r *InMemoryRepository) Stats(ctx context.Context) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &Stats{RecentEnquiries: []RecentEnquiry{}}
	all := make([]*Enquiry, 0, len(r.enquiries))
	for _, e := range r.enquiries {
		all = append(all, e)
		stats.TotalEnquiries++
		switch e.Status {
		case StatusNew:
			stats.NewEnquiries++
		case StatusContacted:
			stats.ContactedEnquiries++
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].SubmittedAt.After(all[j].SubmittedAt)
	})
	for i, e := range all {
		if i == recentLimit {
			break
		}
		stats.RecentEnquiries = append(stats.RecentEnquiries, RecentEnquiry{
			ID:          e.ID,
			Name:        e.Name,
			Status:      e.Status,
			SubmittedAt: e.SubmittedAt,
		})
	}

	return stats, nil
}
