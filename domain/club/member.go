package club

// Role of a user within a club
type Role string

const (
	RoleManager Role = "MANAGER"
	RolePlayer  Role = "PLAYER"
	RoleStaff   Role = "STAFF"
)

// User is the profile of an authenticated caller as supplied by the identity provider
type User struct {
	ID       string `json:"id" dynamodbav:"id"`
	Username string `json:"username" dynamodbav:"username"`
	Email    string `json:"email" dynamodbav:"email"`
	Name     string `json:"name,omitempty" dynamodbav:"name,omitempty"`
}

// DisplayName returns the name if set, otherwise the email address
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Member links a user to a club.
//
// User and Club are snapshots taken when the member record was written and are
// never refreshed when the club or user changes afterwards. ClubID and UserID
// duplicate Club.ID and User.ID so the store can key and index on them.
type Member struct {
	Role   Role   `json:"role" dynamodbav:"role"`
	ClubID string `json:"clubId,omitempty" dynamodbav:"clubId"`
	UserID string `json:"userId,omitempty" dynamodbav:"userId"`
	User   User   `json:"user" dynamodbav:"user"`
	Club   Club   `json:"club" dynamodbav:"club"`
}

// MemberKey identifies a member record: one per (club, user) pair
type MemberKey struct {
	ClubID string `dynamodbav:"clubId"`
	UserID string `dynamodbav:"userId"`
}

// NewMember builds a member record with denormalized club and user snapshots
func NewMember(c Club, u User, role Role) Member {
	return Member{
		Role:   role,
		ClubID: c.ID,
		UserID: u.ID,
		User:   u,
		Club:   c,
	}
}

// Key returns the store key of the member
func (m Member) Key() MemberKey {
	return MemberKey{ClubID: m.ClubID, UserID: m.UserID}
}

// WithoutKeys strips the duplicated key attributes for presentation
func (m Member) WithoutKeys() Member {
	m.ClubID = ""
	m.UserID = ""
	return m
}
