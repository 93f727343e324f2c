package service

import (
	"math"
	"time"

	"quiz_hub_backend/internal/model"
	"quiz_hub_backend/internal/repository"
	"quiz_hub_backend/internal/util"

	"gorm.io/gorm"
)

// MembershipService 成员与计分引擎：enroll、submit+recalculate、dashboard、progress
type MembershipService struct {
	Memberships *repository.MembershipRepository
	Quizzes     *repository.QuizRepository
	DB          *gorm.DB
}

func NewMembershipService(memberships *repository.MembershipRepository, quizzes *repository.QuizRepository, db *gorm.DB) *MembershipService {
	return &MembershipService{Memberships: memberships, Quizzes: quizzes, DB: db}
}

// Enroll 批量拉人：quiz 必须属于 owner，user_ids 不能为空。
// 逐个 get-or-create，已存在的成员原样返回（inactive 不会被重新激活），
// 结果按入参顺序排列。
func (s *MembershipService) Enroll(ownerID, quizID string, userIDs []string) ([]model.Membership, error) {
	if len(userIDs) == 0 {
		return nil, util.ErrEmptyUserIDs
	}

	if _, err := s.Quizzes.FindByIDAndOwner(quizID, ownerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	memberships := make([]model.Membership, 0, len(userIDs))
	for _, uid := range userIDs {
		membership, err := s.Memberships.GetOrCreate(quizID, uid)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, *membership)
	}
	return memberships, nil
}

type SubmitRequest struct {
	QuizID     string `json:"quiz_id" binding:"required"`
	QuestionID string `json:"question_id" binding:"required"`
	OptionID   string `json:"option_id" binding:"required"`
}

type SubmitResult struct {
	Question      string  `json:"question"`
	YourAnswer    string  `json:"your_answer"`
	Correct       bool    `json:"correct"`
	CorrectAnswer string  `json:"correct_answer"`
	ScoreTotal    int     `json:"score_total"`
	ProgressPct   float64 `json:"progress_pct"`
}

// Submit 提交答案：解析 quiz → active membership → question → option，
// 校验测验对该用户开放，然后在一个事务里写 Submission 并重算成绩。
// 同一 (membership, question) 的重复提交被判定为 ValidationError，
// 并发漏过预检查的以唯一索引兜底，同样转成干净的错误。
func (s *MembershipService) Submit(userID string, req SubmitRequest) (*SubmitResult, error) {
	quiz, err := s.Quizzes.FindByID(req.QuizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	membership, err := s.Memberships.FindActive(quiz.ID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotMember
		}
		return nil, err
	}

	if !quiz.WindowContains(time.Now()) {
		return nil, util.ErrQuizNotOpen
	}

	question, err := s.Quizzes.FindQuestionInQuiz(req.QuestionID, quiz.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	option, err := s.Quizzes.FindOptionInQuestion(req.OptionID, question.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrOptionNotFound
		}
		return nil, err
	}

	submission := &model.Submission{
		MembershipID: membership.ID,
		QuestionID:   question.ID,
		OptionID:     option.ID,
		Correct:      option.Correct,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		exists, err := s.Memberships.SubmissionExists(tx, membership.ID, question.ID)
		if err != nil {
			return err
		}
		if exists {
			return util.ErrAlreadyAnswered
		}
		if err := tx.Create(submission).Error; err != nil {
			if err == gorm.ErrDuplicatedKey {
				return util.ErrAlreadyAnswered
			}
			return err
		}
		return s.recalculate(tx, membership)
	})
	if err != nil {
		return nil, err
	}

	correctText := ""
	if correct, err := s.Quizzes.FirstCorrectOption(question.ID); err == nil {
		correctText = correct.Text
	}

	return &SubmitResult{
		Question:      question.Body,
		YourAnswer:    option.Text,
		Correct:       submission.Correct,
		CorrectAnswer: correctText,
		ScoreTotal:    membership.TotalScore,
		ProgressPct:   membership.ProgressPct,
	}, nil
}

// Recalculate 全量重算一个成员的成绩——O(submissions)，以正确性换吞吐
func (s *MembershipService) Recalculate(membership *model.Membership) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.recalculate(tx, membership)
	})
}

func (s *MembershipService) recalculate(tx *gorm.DB, membership *model.Membership) error {
	totalQuestions, err := s.Quizzes.CountQuestions(tx, membership.QuizID)
	if err != nil {
		return err
	}

	answered, err := s.Memberships.CountSubmissions(tx, membership.ID)
	if err != nil {
		return err
	}

	correctPoints, err := s.Memberships.SumCorrectPoints(tx, membership.ID)
	if err != nil {
		return err
	}

	membership.TotalScore = int(correctPoints)
	if totalQuestions > 0 {
		membership.ProgressPct = math.Round(100*float64(answered)/float64(totalQuestions)*100) / 100
	} else {
		membership.ProgressPct = 0
	}
	membership.UpdatedAt = time.Now()

	return tx.Model(&model.Membership{}).Where("id = ?", membership.ID).
		Updates(map[string]interface{}{
			"total_score":  membership.TotalScore,
			"progress_pct": membership.ProgressPct,
			"updated_at":   membership.UpdatedAt,
		}).Error
}

type DashboardEntry struct {
	Participant string  `json:"participant"`
	Progress    float64 `json:"progress"`
	TotalScore  int     `json:"total_score"`
}

// Dashboard 仅限 owner 的聚合视图，按总分倒序，每个成员一行
func (s *MembershipService) Dashboard(ownerID, quizID string) ([]DashboardEntry, error) {
	if _, err := s.Quizzes.FindByIDAndOwner(quizID, ownerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	rows, err := s.Memberships.DashboardRows(quizID)
	if err != nil {
		return nil, err
	}

	entries := make([]DashboardEntry, len(rows))
	for i, row := range rows {
		participant := model.User{FirstName: row.FirstName, LastName: row.LastName}
		entries[i] = DashboardEntry{
			Participant: participant.DisplayName(),
			Progress:    row.ProgressPct,
			TotalScore:  row.TotalScore,
		}
	}
	return entries, nil
}

type MemberProgress struct {
	ProgressPct float64 `json:"progress_pct"`
	TotalScore  int     `json:"total_score"`
}

// Progress 参与者自己的进度；没有成员关系时返回 NotFound
func (s *MembershipService) Progress(userID, quizID string) (*MemberProgress, error) {
	membership, err := s.Memberships.FindByQuizAndUser(quizID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotMember
		}
		return nil, err
	}
	return &MemberProgress{
		ProgressPct: membership.ProgressPct,
		TotalScore:  membership.TotalScore,
	}, nil
}
