package dto

// ListQuery is the shared pagination query for listing endpoints.
type ListQuery struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,gt=0,lte=100"`
	NextToken *string `form:"nextToken" binding:"omitempty"`
}
