package model

import (
	"time"
)

type QuizState string

const (
	QuizDraft  QuizState = "DRAFT"
	QuizLive   QuizState = "LIVE"
	QuizClosed QuizState = "CLOSED"
)

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	OwnerID     string     `gorm:"index;type:varchar(36);not null" json:"owner"`
	Owner       *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	State       QuizState  `gorm:"type:varchar(12);default:'DRAFT'" json:"state"`
	Randomized  bool       `gorm:"default:false" json:"randomized"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`

	Questions   []Question   `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Memberships []Membership `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// WindowContains 测验是否处于可答题窗口：必须 LIVE 且 now 落在 starts_at/ends_at 之间。
// active 成员关系的判断交给 service 层（持有仓库），这里只校验状态和窗口。
func (q *Quiz) WindowContains(now time.Time) bool {
	if q.State != QuizLive {
		return false
	}
	if q.StartsAt != nil && now.Before(*q.StartsAt) {
		return false
	}
	if q.EndsAt != nil && now.After(*q.EndsAt) {
		return false
	}
	return true
}

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID         string `gorm:"index;type:varchar(36);not null;uniqueIndex:uq_question_position_per_quiz" json:"quizId"`
	Body           string `gorm:"type:text;not null" json:"body"`
	Position       int    `gorm:"not null;uniqueIndex:uq_question_position_per_quiz" json:"position"`
	Points         int    `gorm:"default:1" json:"points"`
	ShuffleOptions bool   `gorm:"default:false" json:"shuffle_options"`

	Options []Option `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Option
type Option struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36);not null;uniqueIndex:uq_option_position_per_question" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	Correct    bool   `gorm:"default:false" json:"-"`
	Position   int    `gorm:"not null;uniqueIndex:uq_option_position_per_question" json:"position"`
}

func (Option) TableName() string {
	return "options"
}
