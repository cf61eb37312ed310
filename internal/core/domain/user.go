package domain

import "time"

// UserRole distinguishes ordinary members from moderators.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is a member profile. The profile itself is a moderated subject: it must
// be approved before the member can publish posts or request connections.
// A rejected profile re-enters PENDING when the owner resubmits it; this is
// the only variant permitted to leave a terminal state.
type User struct {
	UserID      string     `json:"userID"`
	FullName    string     `json:"fullName"`
	Mobile      string     `json:"mobile"`
	Island      string     `json:"island"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender"`
	Bio         string     `json:"bio"`
	Role        UserRole   `json:"role"`
	Moderation
	AuditFields
}

func (u User) SubjectKind() SubjectKind    { return KindUserProfile }
func (u User) SubjectID() string           { return u.UserID }
func (u User) SubjectOwner() string        { return u.UserID }
func (u User) ModerationState() Moderation { return u.Moderation }

var _ ModeratedSubject = User{}
