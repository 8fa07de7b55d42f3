package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopware-backend/internal/models"
)

func TestContactLifecycle(t *testing.T) {
	db := setupTestDB(t)
	intakeService := NewIntakeService(db)

	contact, err := intakeService.CreateContact(&models.ContactCreation{
		Name: "Asker", Email: "asker@example.com", Message: "where is my order?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusPending, contact.Status)

	contacts, err := intakeService.ListContacts()
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	require.NoError(t, intakeService.UpdateContactStatus(contact.ID, models.ContactStatusResolved))
	err = intakeService.UpdateContactStatus(contact.ID, "ARCHIVED")
	require.Error(t, err)
	assert.Equal(t, 400, StatusOf(err))

	require.NoError(t, intakeService.DeleteContact(contact.ID))
	err = intakeService.DeleteContact(contact.ID)
	require.Error(t, err)
	assert.Equal(t, 404, StatusOf(err))
}

func TestJobApplicationLifecycle(t *testing.T) {
	db := setupTestDB(t)
	intakeService := NewIntakeService(db)

	application, err := intakeService.CreateJobApplication(&models.JobApplicationCreation{
		Name: "Candidate", Email: "candidate@example.com", Phone: "123",
		Position: "warehouse", ResumeURL: "https://example.com/cv.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApplied, application.Status)

	require.NoError(t, intakeService.UpdateApplicationStatus(application.ID, models.ApplicationStatusShortlisted))

	applications, err := intakeService.ListJobApplications()
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, models.ApplicationStatusShortlisted, applications[0].Status)

	require.NoError(t, intakeService.DeleteJobApplication(application.ID))
}
