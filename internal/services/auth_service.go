package services

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopware-backend/config"
	"shopware-backend/internal/models"
	"shopware-backend/internal/utils"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	db           *sql.DB
	cfg          *config.Config
	emailService *EmailService
}

// NewAuthService creates a new auth service
func NewAuthService(db *sql.DB, cfg *config.Config, emailService *EmailService) *AuthService {
	return &AuthService{db: db, cfg: cfg, emailService: emailService}
}

// JWTClaims represents access token claims
type JWTClaims struct {
	UserID string          `json:"userId"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims represents refresh token claims. TokenVersion lets a
// logout invalidate all previously issued refresh tokens.
type RefreshClaims struct {
	UserID       string `json:"userId"`
	TokenVersion int    `json:"tokenVersion"`
	jwt.RegisteredClaims
}

// Register creates a new unverified user and emails an OTP
func (s *AuthService) Register(reg *models.UserRegistration) (*models.User, error) {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`,
		reg.Email, reg.Username).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists > 0 {
		return nil, ErrConflict("email or username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: string(hash),
		Role:         models.UserRoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	_, err = s.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, role, is_blocked, is_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, FALSE, FALSE, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.SendOTP(user.Email); err != nil {
		return nil, err
	}

	return user, nil
}

// SendOTP generates, stores and emails a verification code
func (s *AuthService) SendOTP(email string) error {
	code, err := utils.GenerateOTP(s.cfg.OTPLength)
	if err != nil {
		return err
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash OTP: %w", err)
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.OTPExpiration) * time.Second)

	err = withTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM otps WHERE email = ?`, email); err != nil {
			return fmt.Errorf("failed to clear old OTPs: %w", err)
		}
		_, err := tx.Exec(`INSERT INTO otps (id, email, code_hash, expires_at) VALUES (?, ?, ?, ?)`,
			uuid.New().String(), email, string(codeHash), expiresAt)
		if err != nil {
			return fmt.Errorf("failed to store OTP: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.emailService.SendOTPEmail(email, code)
}

// VerifyOTP checks the code and marks the user verified
func (s *AuthService) VerifyOTP(email, code string) error {
	var codeHash string
	var expiresAt time.Time
	err := s.db.QueryRow(`
		SELECT code_hash, expires_at FROM otps
		WHERE email = ? ORDER BY created_at DESC LIMIT 1`, email).Scan(&codeHash, &expiresAt)
	if err == sql.ErrNoRows {
		return ErrNotFound("no pending verification for this email")
	}
	if err != nil {
		return fmt.Errorf("failed to load OTP: %w", err)
	}

	if time.Now().After(expiresAt) {
		return ErrBadRequest("verification code expired")
	}
	if bcrypt.CompareHashAndPassword([]byte(codeHash), []byte(code)) != nil {
		return ErrBadRequest("invalid verification code")
	}

	return withTx(s.db, func(tx *sql.Tx) error {
		result, err := tx.Exec(`UPDATE users SET is_verified = TRUE, updated_at = CURRENT_TIMESTAMP WHERE email = ?`, email)
		if err != nil {
			return fmt.Errorf("failed to mark user verified: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return ErrNotFound("user not found")
		}
		if _, err := tx.Exec(`DELETE FROM otps WHERE email = ?`, email); err != nil {
			return fmt.Errorf("failed to consume OTP: %w", err)
		}
		return nil
	})
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(login *models.UserLogin) (*models.User, *models.TokenPair, error) {
	user, err := s.getUserByEmail(login.Email)
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)) != nil {
		return nil, nil, ErrUnauthorized("invalid email or password")
	}
	if !user.IsVerified {
		return nil, nil, ErrForbidden("email not verified")
	}
	if user.IsBlocked {
		return nil, nil, ErrForbidden("account is blocked")
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(refreshToken string) (*models.TokenPair, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized("invalid refresh token")
	}

	user, err := s.GetUserByID(claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized("invalid refresh token")
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrUnauthorized("refresh token revoked")
	}
	if user.RefreshTokenHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.RefreshTokenHash), []byte(tokenFingerprint(refreshToken))) != nil {
		return nil, ErrUnauthorized("refresh token revoked")
	}
	if user.IsBlocked {
		return nil, ErrForbidden("account is blocked")
	}

	return s.issueTokenPair(user)
}

// Logout revokes all outstanding refresh tokens for the user
func (s *AuthService) Logout(userID string) error {
	_, err := s.db.Exec(`
		UPDATE users SET refresh_token_hash = NULL, token_version = token_version + 1,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// ValidateToken parses and validates an access token
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized("invalid or expired token")
	}
	return claims, nil
}

// GetUserByID loads a user by ID
func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(`
		SELECT id, username, email, password_hash, refresh_token_hash, token_version,
		       role, is_blocked, is_verified, created_at, updated_at
		FROM users WHERE id = ?`, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.RefreshTokenHash, &user.TokenVersion, &user.Role,
		&user.IsBlocked, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) getUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(`
		SELECT id, username, email, password_hash, refresh_token_hash, token_version,
		       role, is_blocked, is_verified, created_at, updated_at
		FROM users WHERE email = ?`, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.RefreshTokenHash, &user.TokenVersion, &user.Role,
		&user.IsBlocked, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUnauthorized("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueTokenPair(user *models.User) (*models.TokenPair, error) {
	now := time.Now()

	accessClaims := &JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpiration) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := &RefreshClaims{
		UserID:       user.ID,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.RefreshExpiration) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	// bcrypt input is capped at 72 bytes, so hash a digest of the token
	refreshHash, err := bcrypt.GenerateFromPassword([]byte(tokenFingerprint(refreshToken)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}
	_, err = s.db.Exec(`UPDATE users SET refresh_token_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(refreshHash), user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
