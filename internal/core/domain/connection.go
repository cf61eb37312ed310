package domain

// ConnectionRequest asks for an introduction to another member, optionally in
// reply to one of their posts. It is the only subject the requester can
// voluntarily CANCEL while it is still PENDING.
type ConnectionRequest struct {
	RequestID   string  `json:"requestID"`
	RequesterID string  `json:"requesterID"`
	TargetID    string  `json:"targetID"`
	PostID      *string `json:"postID,omitempty"`
	Message     string  `json:"message"`
	Moderation
	AuditFields
}

func (c ConnectionRequest) SubjectKind() SubjectKind    { return KindConnection }
func (c ConnectionRequest) SubjectID() string           { return c.RequestID }
func (c ConnectionRequest) SubjectOwner() string        { return c.RequesterID }
func (c ConnectionRequest) ModerationState() Moderation { return c.Moderation }

var _ ModeratedSubject = ConnectionRequest{}
