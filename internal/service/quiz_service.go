package service

import (
	"math/rand"
	"time"

	"quiz_hub_backend/internal/model"
	"quiz_hub_backend/internal/repository"
	"quiz_hub_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	Repo *repository.QuizRepository
	DB   *gorm.DB
}

func NewQuizService(repo *repository.QuizRepository, db *gorm.DB) *QuizService {
	return &QuizService{Repo: repo, DB: db}
}

type OptionWriteRequest struct {
	Text    string `json:"text" binding:"required"`
	Correct bool   `json:"correct"`
}

type QuestionWriteRequest struct {
	Body           string               `json:"body" binding:"required"`
	Points         int                  `json:"points"`
	ShuffleOptions bool                 `json:"shuffle_options"`
	Options        []OptionWriteRequest `json:"options" binding:"required,min=1,dive"`
}

type QuizWriteRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Randomized  bool                   `json:"randomized"`
	StartsAt    *time.Time             `json:"starts_at"`
	EndsAt      *time.Time             `json:"ends_at"`
	Questions   []QuestionWriteRequest `json:"questions" binding:"dive"`
}

// Create 嵌套创建：测验 + 题目 + 选项在一个事务里落库，任何一步失败整体回滚。
// 题目/选项的 position 在创建时显式按 max+1 递增分配，不做隐式的保存钩子。
func (s *QuizService) Create(ownerID string, req QuizWriteRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		State:       model.QuizDraft,
		Randomized:  req.Randomized,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions").Create(quiz).Error; err != nil {
			return err
		}
		for i := range req.Questions {
			if _, err := s.createQuestion(tx, quiz.ID, req.Questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Repo.FindByID(quiz.ID)
}

func (s *QuizService) createQuestion(tx *gorm.DB, quizID string, req QuestionWriteRequest) (*model.Question, error) {
	position, err := s.Repo.MaxQuestionPosition(tx, quizID)
	if err != nil {
		return nil, err
	}

	points := req.Points
	if points <= 0 {
		points = 1
	}

	question := &model.Question{
		QuizID:         quizID,
		Body:           req.Body,
		Position:       position + 1,
		Points:         points,
		ShuffleOptions: req.ShuffleOptions,
	}
	if err := tx.Omit("Options").Create(question).Error; err != nil {
		return nil, err
	}

	for i, opt := range req.Options {
		option := &model.Option{
			QuestionID: question.ID,
			Text:       opt.Text,
			Correct:    opt.Correct,
			Position:   i + 1,
		}
		if err := tx.Create(option).Error; err != nil {
			return nil, err
		}
	}
	return question, nil
}

type QuizUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Randomized  *bool      `json:"randomized"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// Update 只更新标量字段；嵌套的题目结构创建后不可改
func (s *QuizService) Update(ownerID, quizID string, req QuizUpdateRequest) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByIDAndOwner(quizID, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Randomized != nil {
		quiz.Randomized = *req.Randomized
	}
	if req.StartsAt != nil {
		quiz.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		quiz.EndsAt = req.EndsAt
	}

	if err := s.Repo.Save(quiz); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(quiz.ID)
}

func (s *QuizService) Delete(ownerID, quizID string) error {
	quiz, err := s.Repo.FindByIDAndOwner(quizID, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrQuizNotFound
		}
		return err
	}
	return s.Repo.Delete(quiz)
}

// GetVisible 调用者可见的测验（自己的或作为 active 成员加入的）
func (s *QuizService) GetVisible(userID, quizID string) (*model.Quiz, error) {
	quiz, err := s.Repo.FindVisible(quizID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListVisible(userID string) ([]model.Quiz, error) {
	return s.Repo.ListVisible(userID)
}

// Publish 发布：state := LIVE，starts_at 未设置时取当前时间。
// 不校验先前状态——重复 publish 或对 CLOSED 的测验 publish 都是允许的（保留原行为）。
func (s *QuizService) Publish(callerID, quizID string) (*model.Quiz, error) {
	quiz, err := s.loadForLifecycle(callerID, quizID)
	if err != nil {
		return nil, err
	}

	quiz.State = model.QuizLive
	if quiz.StartsAt == nil {
		now := time.Now()
		quiz.StartsAt = &now
	}
	err = s.DB.Model(&model.Quiz{}).Where("id = ?", quiz.ID).
		Updates(map[string]interface{}{"state": quiz.State, "starts_at": quiz.StartsAt}).Error
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// Close 关闭：state := CLOSED，同样不校验先前状态
func (s *QuizService) Close(callerID, quizID string) (*model.Quiz, error) {
	quiz, err := s.loadForLifecycle(callerID, quizID)
	if err != nil {
		return nil, err
	}

	quiz.State = model.QuizClosed
	err = s.DB.Model(&model.Quiz{}).Where("id = ?", quiz.ID).
		Update("state", quiz.State).Error
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// loadForLifecycle 生命周期操作的加载路径：不可见 → 404；可见但不是 owner → 403
func (s *QuizService) loadForLifecycle(callerID, quizID string) (*model.Quiz, error) {
	quiz, err := s.Repo.FindVisible(quizID, callerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.OwnerID != callerID {
		return nil, util.ErrNotAllowed
	}
	return quiz, nil
}

// ---- read views ----

type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID       string       `json:"id"`
	Body     string       `json:"body"`
	Position int          `json:"position"`
	Points   int          `json:"points"`
	Options  []OptionView `json:"options"`
}

type QuizView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	State       model.QuizState `json:"state"`
	Randomized  bool            `json:"randomized"`
	StartsAt    *time.Time      `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at"`
	Questions   []QuestionView  `json:"questions"`
}

// BuildView 参与者视角的测验视图：不暴露 correct，
// shuffle_options 的题目每次返回前打乱选项顺序。
func BuildView(quiz *model.Quiz) QuizView {
	questions := make([]QuestionView, len(quiz.Questions))
	for i, q := range quiz.Questions {
		options := make([]OptionView, len(q.Options))
		for j, o := range q.Options {
			options[j] = OptionView{ID: o.ID, Text: o.Text}
		}
		if q.ShuffleOptions {
			rand.Shuffle(len(options), func(a, b int) {
				options[a], options[b] = options[b], options[a]
			})
		}
		questions[i] = QuestionView{
			ID:       q.ID,
			Body:     q.Body,
			Position: q.Position,
			Points:   q.Points,
			Options:  options,
		}
	}
	return QuizView{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		State:       quiz.State,
		Randomized:  quiz.Randomized,
		StartsAt:    quiz.StartsAt,
		EndsAt:      quiz.EndsAt,
		Questions:   questions,
	}
}
