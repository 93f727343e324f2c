package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// swagger:model Membership
type Membership struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	QuizID      string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_membership_quiz_user" json:"quiz"`
	UserID      string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_membership_quiz_user" json:"user"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Active      bool      `gorm:"default:true" json:"active"`
	ProgressPct float64   `gorm:"type:decimal(5,2);default:0" json:"progress_pct"` // 0..100
	TotalScore  int       `gorm:"default:0" json:"total_score"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Submissions []Submission `gorm:"foreignKey:MembershipID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Membership) TableName() string {
	return "memberships"
}

func (m *Membership) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// swagger:model Submission
type Submission struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MembershipID string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_submission_membership_question" json:"membershipId"`
	QuestionID   string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_submission_membership_question" json:"questionId"`
	Question     *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	OptionID     string    `gorm:"type:varchar(36);not null" json:"optionId"`
	Option       *Option   `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE" json:"-"`
	Correct      bool      `gorm:"default:false" json:"correct"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}
