package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopware-backend/internal/models"
)

// UserService handles profile and address book operations
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new user service
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetProfile loads a user's public profile with addresses
func (s *UserService) GetProfile(userID string) (*models.User, []models.Address, error) {
	user := &models.User{}
	err := s.db.QueryRow(`
		SELECT id, username, email, role, is_blocked, is_verified, created_at, updated_at
		FROM users WHERE id = ?`, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.Role,
		&user.IsBlocked, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound("user not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	addresses, err := s.ListAddresses(userID)
	if err != nil {
		return nil, nil, err
	}
	return user, addresses, nil
}

// UpdateUsername changes the username, enforcing uniqueness
func (s *UserService) UpdateUsername(userID, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrBadRequest("username cannot be empty")
	}

	var taken int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ? AND id != ?`,
		username, userID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken > 0 {
		return ErrConflict("username already taken")
	}

	result, err := s.db.Exec(`UPDATE users SET username = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		username, userID)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("user not found")
	}
	return nil
}

// ListAddresses returns the user's saved addresses, default first
func (s *UserService) ListAddresses(userID string) ([]models.Address, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, full_name, phone, street, city, state, pincode, is_default, created_at
		FROM addresses WHERE user_id = ?
		ORDER BY is_default DESC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Street,
			&a.City, &a.State, &a.Pincode, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

// AddAddress saves a new address. The first address becomes the
// default; the book is capped at MaxAddressesPerUser entries.
func (s *UserService) AddAddress(userID string, req *models.AddressCreation) (*models.Address, error) {
	var address *models.Address

	err := withTx(s.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM addresses WHERE user_id = ?`, userID).Scan(&count); err != nil {
			return fmt.Errorf("failed to count addresses: %w", err)
		}
		if count >= models.MaxAddressesPerUser {
			return ErrConflict(fmt.Sprintf("address limit of %d reached", models.MaxAddressesPerUser))
		}

		address = &models.Address{
			ID:        uuid.New().String(),
			UserID:    userID,
			FullName:  req.FullName,
			Phone:     req.Phone,
			Street:    req.Street,
			City:      req.City,
			State:     req.State,
			Pincode:   req.Pincode,
			IsDefault: count == 0,
			CreatedAt: time.Now(),
		}

		_, err := tx.Exec(`
			INSERT INTO addresses (id, user_id, full_name, phone, street, city, state, pincode, is_default, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			address.ID, address.UserID, address.FullName, address.Phone,
			address.Street, address.City, address.State, address.Pincode,
			address.IsDefault, address.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes an address owned by the user. If the default
// address is removed, the oldest remaining one becomes the default.
func (s *UserService) DeleteAddress(userID, addressID string) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		var wasDefault bool
		err := tx.QueryRow(`SELECT is_default FROM addresses WHERE id = ? AND user_id = ?`,
			addressID, userID).Scan(&wasDefault)
		if err == sql.ErrNoRows {
			return ErrNotFound("address not found")
		}
		if err != nil {
			return fmt.Errorf("failed to load address: %w", err)
		}

		if _, err := tx.Exec(`DELETE FROM addresses WHERE id = ?`, addressID); err != nil {
			return fmt.Errorf("failed to delete address: %w", err)
		}

		if wasDefault {
			_, err := tx.Exec(`
				UPDATE addresses SET is_default = TRUE
				WHERE id = (SELECT id FROM addresses WHERE user_id = ? ORDER BY created_at ASC LIMIT 1)`,
				userID)
			if err != nil {
				return fmt.Errorf("failed to promote new default address: %w", err)
			}
		}
		return nil
	})
}

// GetDefaultAddress loads the user's flagged default address
func (s *UserService) GetDefaultAddress(userID string) (*models.Address, error) {
	a := &models.Address{}
	err := s.db.QueryRow(`
		SELECT id, user_id, full_name, phone, street, city, state, pincode, is_default, created_at
		FROM addresses WHERE user_id = ? AND is_default = TRUE`, userID).Scan(
		&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Street,
		&a.City, &a.State, &a.Pincode, &a.IsDefault, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("no default address set")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default address: %w", err)
	}
	return a, nil
}
