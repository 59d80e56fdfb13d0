// ABOUTME: User model with identity and tracking preferences.
// ABOUTME: Local-only users carry a "local-" sentinel id until promoted to a cloud account.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalUserPrefix marks users created before any authentication.
// The migration service rewrites these ids when the user signs in.
const LocalUserPrefix = "local-"

// Units of measurement for body weight and lifting weight.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// User is the owner of all tracked data on this device.
type User struct {
	ID            string
	Name          string
	Units         string
	CalorieTarget int
	StepTarget    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewLocalUser creates an anonymous local-only user.
func NewLocalUser(name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:            LocalUserPrefix + uuid.New().String(),
		Name:          name,
		Units:         UnitsMetric,
		CalorieTarget: 2000,
		StepTarget:    10000,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsLocal reports whether the user has never been linked to a cloud account.
func (u *User) IsLocal() bool {
	return IsLocalUserID(u.ID)
}

// IsLocalUserID reports whether id matches the local-ownership sentinel.
func IsLocalUserID(id string) bool {
	return strings.HasPrefix(id, LocalUserPrefix)
}
