package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the back-office role of a staff member
type Role string

const (
	RoleAdmin     Role = "ADMIN"     // Full administrative access
	RoleTreasurer Role = "TREASURER" // Validates financial and clinical records
	RoleDoctor    Role = "DOCTOR"    // Physician, fee beneficiary
	RoleStaff     Role = "STAFF"     // Submits records, paramedical/admin staff
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTreasurer, RoleDoctor, RoleStaff:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// CanValidate returns true if the role may approve or reject records
func (r Role) CanValidate() bool {
	return r == RoleAdmin || r == RoleTreasurer
}

const bcryptCost = 12

var usernameRe = regexp.MustCompile(`^[a-z0-9._-]{3,50}$`)

// User represents a clinic staff member able to sign in to the back office
type User struct {
	shared.BaseAggregateRoot
	Username     string
	DisplayName  string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates a new active staff user
func NewUser(username, displayName, password string, role Role, now time.Time) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernameRe.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 lowercase letters, digits, dots, dashes or underscores")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role is not valid")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Username:          username,
		DisplayName:       strings.TrimSpace(displayName),
		PasswordHash:      string(hash),
		Role:              role,
		Active:            true,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(password string, now time.Time) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = now
	return nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin(now time.Time) {
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Deactivate disables sign-in for the user
func (u *User) Deactivate(now time.Time) {
	u.Active = false
	u.UpdatedAt = now
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string, now time.Time) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	u.Email = email
	u.UpdatedAt = now
	return nil
}
