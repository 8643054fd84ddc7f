package enquiries

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Status tracks where an enquiry sits in the follow-up lifecycle.
type Status string

const (
	StatusNew        Status = "new"
	StatusContacted  Status = "contacted"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

const (
	maxNameLen        = 50
	maxRequirementLen = 500
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// Enquiry is one stored contact-form submission.
type Enquiry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Requirement string     `json:"requirement"`
	SubmittedAt time.Time  `json:"submittedAt"`
	Status      Status     `json:"status"`
	Notes       string     `json:"notes"`
	FollowUpAt  *time.Time `json:"followUpAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SubmitEnquiryRequest is the inbound contact-form payload.
type SubmitEnquiryRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Requirement string `json:"requirement"`
	SubmittedAt string `json:"submittedAt"`
}

// Normalize trims all string fields in place.
func (r *SubmitEnquiryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Requirement = strings.TrimSpace(r.Requirement)
	r.SubmittedAt = strings.TrimSpace(r.SubmittedAt)
}

// Validate normalizes the request and checks every field, collecting
// all failures rather than stopping at the first one. Returns a
// *ValidationError or nil.
func (r *SubmitEnquiryRequest) Validate() error {
	r.Normalize()

	fields := map[string]string{}

	if r.Name == "" {
		fields["name"] = "Name is required"
	} else if utf8.RuneCountInString(r.Name) > maxNameLen {
		fields["name"] = "Name must be 50 characters or less"
	}

	if r.Email == "" && r.Phone == "" {
		fields["email"] = "Either email or phone is required"
		fields["phone"] = "Either email or phone is required"
	}

	if r.Email != "" && !emailPattern.MatchString(r.Email) {
		fields["email"] = "Please provide a valid email address"
	}

	if r.Phone != "" && !validPhone(r.Phone) {
		fields["phone"] = "Please provide a valid phone number"
	}

	if utf8.RuneCountInString(r.Requirement) > maxRequirementLen {
		fields["requirement"] = "Requirement must be 500 characters or less"
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// SubmittedAtOrNow parses the optional client timestamp, falling back
// to the current time when absent or unparseable.
func (r *SubmitEnquiryRequest) SubmittedAtOrNow() time.Time {
	if r.SubmittedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.SubmittedAt); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func validPhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	digits := len(digitPattern.FindAllString(phone, -1))
	return digits >= 7 && digits <= 20
}
