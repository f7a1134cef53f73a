package model

import "time"

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Likes     int       `json:"likes" gorm:"not null;default:0"`
	Dislikes  int       `json:"dislikes" gorm:"not null;default:0"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	URL       *string   `json:"url"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// 核验结果随创建一次性写入，之后不再重算。
	// 按接口约定以字符串存储："true"/"false" 与十进制小数。
	Real             *string `json:"real"`
	CredibilityScore *string `json:"credibility_score"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
