package model

import "time"

// Role is the access level of an actor.
type Role string

const (
	// RoleStandard actors act only on their own records.
	RoleStandard Role = "user"
	// RoleElevated actors may act on any user's records and files.
	RoleElevated Role = "admin"
)

// Valid reports whether the role is one of the known wire values.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleElevated
}

// Quota defaults applied when a user record leaves the field unset.
// An explicitly stored zero is honored as zero.
const (
	DefaultFileLimit   int64 = 500
	DefaultMaxFileSize int64 = 100 << 20 // 100 MiB
)

// User is a per-user record keyed by the provider-asserted uid.
// Records are provisioned out-of-band and never deleted by this service.
// FileLimit and MaxFileSize are nil when the record predates the field.
type User struct {
	UID         string    `bson:"uid" json:"uid"`
	Email       string    `bson:"email" json:"email"`
	Role        Role      `bson:"user_type" json:"user_type"`
	FileLimit   *int64    `bson:"file_limit,omitempty" json:"file_limit,omitempty"`
	FileCount   int64     `bson:"file_count" json:"file_count"`
	MaxFileSize *int64    `bson:"max_file_size,omitempty" json:"max_file_size,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// IsElevated reports whether the user may act on other users' records.
func (u *User) IsElevated() bool {
	return u.Role == RoleElevated
}

// EffectiveFileLimit returns the file count ceiling, defaulted when unset.
func (u *User) EffectiveFileLimit() int64 {
	if u.FileLimit == nil {
		return DefaultFileLimit
	}

	return *u.FileLimit
}

// EffectiveMaxFileSize returns the single-file byte ceiling, defaulted when unset.
func (u *User) EffectiveMaxFileSize() int64 {
	if u.MaxFileSize == nil {
		return DefaultMaxFileSize
	}

	return *u.MaxFileSize
}
