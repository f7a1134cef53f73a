package dto

import (
	"newsjam-server/internal/model"
	"strconv"
	"time"
)

type UserRead struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PostRead 是帖子的对外表示。
// real 与 credibility_score 在库中以字符串存储，这里转换为布尔/浮点。
type PostRead struct {
	ID               uint      `json:"id"`
	UserID           uint      `json:"user_id"`
	Likes            int       `json:"likes"`
	Dislikes         int       `json:"dislikes"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	URL              *string   `json:"url"`
	CreatedAt        time.Time `json:"created_at"`
	Real             *bool     `json:"real"`
	CredibilityScore *float64  `json:"credibility_score"`
	User             *UserRead `json:"user,omitempty"`
}

func NewUserRead(u *model.User) UserRead {
	return UserRead{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

func NewPostRead(p *model.Post) PostRead {
	read := PostRead{
		ID:               p.ID,
		UserID:           p.UserID,
		Likes:            p.Likes,
		Dislikes:         p.Dislikes,
		Title:            p.Title,
		Content:          p.Content,
		URL:              p.URL,
		CreatedAt:        p.CreatedAt,
		Real:             parseRealFlag(p.Real),
		CredibilityScore: parseScore(p.CredibilityScore),
	}
	if p.User.ID != 0 {
		user := NewUserRead(&p.User)
		read.User = &user
	}
	return read
}

func NewPostReadList(posts []model.Post) []PostRead {
	reads := make([]PostRead, 0, len(posts))
	for i := range posts {
		reads = append(reads, NewPostRead(&posts[i]))
	}
	return reads
}

func parseRealFlag(s *string) *bool {
	if s == nil {
		return nil
	}
	v := *s == "true"
	return &v
}

func parseScore(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil
	}
	return &v
}
