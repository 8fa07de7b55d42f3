package models

import "time"

// ContactStatus represents the moderation state of a contact message
type ContactStatus string

const (
	ContactStatusPending  ContactStatus = "PENDING"
	ContactStatusResolved ContactStatus = "RESOLVED"
)

// Contact represents a contact form submission
type Contact struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Email     string        `json:"email" db:"email"`
	Message   string        `json:"message" db:"message"`
	Status    ContactStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// ContactCreation represents contact form input
type ContactCreation struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// ApplicationStatus represents the review state of a job application
type ApplicationStatus string

const (
	ApplicationStatusApplied     ApplicationStatus = "APPLIED"
	ApplicationStatusShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"
)

// JobApplication represents a job application submission
type JobApplication struct {
	ID          string            `json:"id" db:"id"`
	Name        string            `json:"name" db:"name"`
	Email       string            `json:"email" db:"email"`
	Phone       string            `json:"phone" db:"phone"`
	Position    string            `json:"position" db:"position"`
	ResumeURL   string            `json:"resumeUrl" db:"resume_url"`
	CoverLetter string            `json:"coverLetter" db:"cover_letter"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`
}

// JobApplicationCreation represents job application input
type JobApplicationCreation struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	Position    string `json:"position" binding:"required"`
	ResumeURL   string `json:"resumeUrl" binding:"required"`
	CoverLetter string `json:"coverLetter"`
}
