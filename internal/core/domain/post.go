package domain

// Post is a partner-seeking publication. Creating one costs coins and the post
// stays PENDING until an admin decides it; only APPROVED posts are publicly
// listed.
type Post struct {
	PostID  string `json:"postID"`
	OwnerID string `json:"ownerID"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Moderation
	AuditFields
}

func (p Post) SubjectKind() SubjectKind    { return KindPost }
func (p Post) SubjectID() string           { return p.PostID }
func (p Post) SubjectOwner() string        { return p.OwnerID }
func (p Post) ModerationState() Moderation { return p.Moderation }

var _ ModeratedSubject = Post{}
