package repository

import (
	"quiz_hub_backend/internal/model"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	DB *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{DB: db}
}

// GetOrCreate 按 (quiz, user) 取或建；已存在时原样返回，不翻转 active
func (r *MembershipRepository) GetOrCreate(quizID, userID string) (*model.Membership, error) {
	var membership model.Membership
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&membership).Error
	if err == nil {
		return &membership, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	membership = model.Membership{
		QuizID: quizID,
		UserID: userID,
		Active: true,
	}
	if err := r.DB.Create(&membership).Error; err != nil {
		// 并发 enroll 撞到唯一约束时回读已有记录
		if err == gorm.ErrDuplicatedKey {
			var existing model.Membership
			if ferr := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepository) FindByQuizAndUser(quizID, userID string) (*model.Membership, error) {
	var membership model.Membership
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepository) FindActive(quizID, userID string) (*model.Membership, error) {
	var membership model.Membership
	err := r.DB.Where("quiz_id = ? AND user_id = ? AND active = ?", quizID, userID, true).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepository) CountSubmissions(tx *gorm.DB, membershipID string) (int64, error) {
	var count int64
	err := tx.Model(&model.Submission{}).Where("membership_id = ?", membershipID).Count(&count).Error
	return count, err
}

// SumCorrectPoints 正确提交对应题目的分值之和
func (r *MembershipRepository) SumCorrectPoints(tx *gorm.DB, membershipID string) (float64, error) {
	var points float64
	err := tx.Model(&model.Submission{}).
		Joins("JOIN questions ON questions.id = submissions.question_id").
		Where("submissions.membership_id = ? AND submissions.correct = ?", membershipID, true).
		Select("COALESCE(SUM(questions.points), 0)").
		Scan(&points).Error
	return points, err
}

func (r *MembershipRepository) SubmissionExists(tx *gorm.DB, membershipID, questionID string) (bool, error) {
	var count int64
	err := tx.Model(&model.Submission{}).
		Where("membership_id = ? AND question_id = ?", membershipID, questionID).
		Count(&count).Error
	return count > 0, err
}

// DashboardRow 仪表盘一行：每个成员一条，progress/score 用 SUM 聚合
// （单行分组上求和等于投影本身，保留原查询形状）
type DashboardRow struct {
	FirstName   string  `gorm:"column:first_name"`
	LastName    string  `gorm:"column:last_name"`
	ProgressPct float64 `gorm:"column:progress"`
	TotalScore  int     `gorm:"column:score"`
}

func (r *MembershipRepository) DashboardRows(quizID string) ([]DashboardRow, error) {
	var rows []DashboardRow
	err := r.DB.Model(&model.Membership{}).
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.quiz_id = ?", quizID).
		Group("users.id, users.first_name, users.last_name").
		Select("users.first_name, users.last_name, SUM(memberships.progress_pct) AS progress, SUM(memberships.total_score) AS score").
		Order("score desc").
		Scan(&rows).Error
	return rows, err
}
