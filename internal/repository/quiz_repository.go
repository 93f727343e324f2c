package repository

import (
	"quiz_hub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Save(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc, created_at asc")
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindByIDAndOwner 只在 owner 拥有该测验时命中
func (r *QuizRepository) FindByIDAndOwner(id, ownerID string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindVisible 调用者可见的单个测验：自己拥有的，或自己是 active 成员的
func (r *QuizRepository) FindVisible(id, userID string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.visibleQuery(userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, created_at asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("quizzes.id = ?", id).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListVisible 调用者可见的全部测验，按创建时间倒序
func (r *QuizRepository) ListVisible(userID string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.visibleQuery(userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, created_at asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Order("quizzes.created_at desc").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) visibleQuery(userID string) *gorm.DB {
	return r.DB.Model(&model.Quiz{}).
		Joins("LEFT JOIN memberships ON memberships.quiz_id = quizzes.id AND memberships.user_id = ? AND memberships.active = ?", userID, true).
		Where("quizzes.owner_id = ? OR memberships.id IS NOT NULL", userID).
		Distinct("quizzes.*")
}

func (r *QuizRepository) Delete(quiz *model.Quiz) error {
	return r.DB.Select("Questions", "Memberships").Delete(quiz).Error
}

func (r *QuizRepository) CountQuestions(tx *gorm.DB, quizID string) (int64, error) {
	var count int64
	err := tx.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *QuizRepository) FindQuestionInQuiz(questionID, quizID string) (*model.Question, error) {
	var question model.Question
	err := r.DB.Where("id = ? AND quiz_id = ?", questionID, quizID).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuizRepository) FindOptionInQuestion(optionID, questionID string) (*model.Option, error) {
	var option model.Option
	err := r.DB.Where("id = ? AND question_id = ?", optionID, questionID).First(&option).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// FirstCorrectOption 题目的第一个正确选项（按 position），多正确时任意取先
func (r *QuizRepository) FirstCorrectOption(questionID string) (*model.Option, error) {
	var option model.Option
	err := r.DB.Where("question_id = ? AND correct = ?", questionID, true).
		Order("position asc").First(&option).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// MaxQuestionPosition 当前测验内最大题目序号，空测验为 0
func (r *QuizRepository) MaxQuestionPosition(tx *gorm.DB, quizID string) (int, error) {
	var max int
	err := tx.Model(&model.Question{}).Where("quiz_id = ?", quizID).
		Select("COALESCE(MAX(position), 0)").Scan(&max).Error
	return max, err
}
