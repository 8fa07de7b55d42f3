package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopware-backend/internal/models"
)

// IntakeService handles contact messages and job applications
type IntakeService struct {
	db *sql.DB
}

// NewIntakeService creates a new intake service
func NewIntakeService(db *sql.DB) *IntakeService {
	return &IntakeService{db: db}
}

// CreateContact stores a contact form submission
func (s *IntakeService) CreateContact(req *models.ContactCreation) (*models.Contact, error) {
	now := time.Now()
	contact := &models.Contact{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		Status:    models.ContactStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.Exec(`
		INSERT INTO contacts (id, name, email, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		contact.ID, contact.Name, contact.Email, contact.Message,
		contact.Status, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// ListContacts returns contact messages, newest first
func (s *IntakeService) ListContacts() ([]models.Contact, error) {
	rows, err := s.db.Query(`
		SELECT id, name, email, message, status, created_at, updated_at
		FROM contacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.Status,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpdateContactStatus moves a contact message through moderation
func (s *IntakeService) UpdateContactStatus(contactID string, status models.ContactStatus) error {
	if status != models.ContactStatusPending && status != models.ContactStatusResolved {
		return ErrBadRequest(fmt.Sprintf("unknown contact status: %s", status))
	}
	result, err := s.db.Exec(`
		UPDATE contacts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, contactID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("contact not found")
	}
	return nil
}

// DeleteContact removes a contact message
func (s *IntakeService) DeleteContact(contactID string) error {
	result, err := s.db.Exec(`DELETE FROM contacts WHERE id = ?`, contactID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("contact not found")
	}
	return nil
}

// CreateJobApplication stores a job application
func (s *IntakeService) CreateJobApplication(req *models.JobApplicationCreation) (*models.JobApplication, error) {
	now := time.Now()
	application := &models.JobApplication{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Position:    req.Position,
		ResumeURL:   req.ResumeURL,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusApplied,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.Exec(`
		INSERT INTO job_applications (id, name, email, phone, position, resume_url, cover_letter, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		application.ID, application.Name, application.Email, application.Phone,
		application.Position, application.ResumeURL, application.CoverLetter,
		application.Status, application.CreatedAt, application.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job application: %w", err)
	}
	return application, nil
}

// ListJobApplications returns applications, newest first
func (s *IntakeService) ListJobApplications() ([]models.JobApplication, error) {
	rows, err := s.db.Query(`
		SELECT id, name, email, phone, position, resume_url, cover_letter, status, created_at, updated_at
		FROM job_applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	defer rows.Close()

	applications := []models.JobApplication{}
	for rows.Next() {
		var a models.JobApplication
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Position,
			&a.ResumeURL, &a.CoverLetter, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job application: %w", err)
		}
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

// UpdateApplicationStatus moves an application through review
func (s *IntakeService) UpdateApplicationStatus(applicationID string, status models.ApplicationStatus) error {
	switch status {
	case models.ApplicationStatusApplied, models.ApplicationStatusShortlisted, models.ApplicationStatusRejected:
	default:
		return ErrBadRequest(fmt.Sprintf("unknown application status: %s", status))
	}
	result, err := s.db.Exec(`
		UPDATE job_applications SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, applicationID)
	if err != nil {
		return fmt.Errorf("failed to update job application: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("job application not found")
	}
	return nil
}

// DeleteJobApplication removes an application
func (s *IntakeService) DeleteJobApplication(applicationID string) error {
	result, err := s.db.Exec(`DELETE FROM job_applications WHERE id = ?`, applicationID)
	if err != nil {
		return fmt.Errorf("failed to delete job application: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("job application not found")
	}
	return nil
}
