package service_test

import (
	"testing"

	"quiz_hub_backend/internal/model"
	"quiz_hub_backend/internal/repository"
	"quiz_hub_backend/internal/service"
	"quiz_hub_backend/internal/util"
	"quiz_hub_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNestedCreateAssignsPositions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", model.Owner)

	quiz, err := env.quizzes.Create(owner.ID, service.QuizWriteRequest{
		Title: "Go basics",
		Questions: []service.QuestionWriteRequest{
			{Body: "What is a goroutine?", Points: 2, Options: []service.OptionWriteRequest{
				{Text: "A lightweight thread", Correct: true},
				{Text: "A package"},
			}},
			{Body: "What does gofmt do?", Options: []service.OptionWriteRequest{
				{Text: "Formats code", Correct: true},
				{Text: "Runs tests"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	if quiz.State != model.QuizDraft {
		t.Fatalf("expected DRAFT, got %s", quiz.State)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	for i, q := range quiz.Questions {
		if q.Position != i+1 {
			t.Fatalf("question %d: expected position %d, got %d", i, i+1, q.Position)
		}
		for j, o := range q.Options {
			if o.Position != j+1 {
				t.Fatalf("option %d/%d: expected position %d, got %d", i, j, j+1, o.Position)
			}
		}
	}
	// 未指定 points 时默认为 1
	if quiz.Questions[1].Points != 1 {
		t.Fatalf("expected default points 1, got %d", quiz.Questions[1].Points)
	}
}

func TestPublishSetsStartsAtAndState(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", model.Owner)
	quiz := env.createQuiz(t, owner.ID, 1, 1)

	published, err := env.quizzes.Publish(owner.ID, quiz.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.State != model.QuizLive {
		t.Fatalf("expected LIVE, got %s", published.State)
	}
	if published.StartsAt == nil {
		t.Fatal("expected starts_at to be set on publish")
	}

	// 重复 publish 和对 CLOSED 的 publish 都是允许的
	if _, err := env.quizzes.Close(owner.ID, quiz.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	again, err := env.quizzes.Publish(owner.ID, quiz.ID)
	if err != nil {
		t.Fatalf("re-publish after close: %v", err)
	}
	if again.State != model.QuizLive {
		t.Fatalf("expected LIVE after re-publish, got %s", again.State)
	}
}

func TestPublishByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", model.Owner)
	member := env.createUser(t, "member@example.com", model.Participant)
	stranger := env.createUser(t, "stranger@example.com", model.Participant)
	quiz := env.createQuiz(t, owner.ID, 1, 1)

	if _, err := env.memberships.Enroll(owner.ID, quiz.ID, []string{member.ID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// 可见但非 owner → Not allowed
	if _, err := env.quizzes.Publish(member.ID, quiz.ID); err != util.ErrNotAllowed {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	// 不可见 → NotFound，不泄露存在性
	if _, err := env.quizzes.Publish(stranger.ID, quiz.ID); err != util.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	// 状态保持不变
	reloaded, err := env.quizzes.GetVisible(owner.ID, quiz.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.State != model.QuizDraft {
		t.Fatalf("expected quiz to stay DRAFT, got %s", reloaded.State)
	}
}

func TestVisibleScoping(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", model.Owner)
	member := env.createUser(t, "member@example.com", model.Participant)
	stranger := env.createUser(t, "stranger@example.com", model.Participant)
	quiz := env.createQuiz(t, owner.ID, 1, 1)

	if _, err := env.memberships.Enroll(owner.ID, quiz.ID, []string{member.ID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if _, err := env.quizzes.GetVisible(member.ID, quiz.ID); err != nil {
		t.Fatalf("member should see quiz: %v", err)
	}
	if _, err := env.quizzes.GetVisible(stranger.ID, quiz.ID); err != util.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound for stranger, got %v", err)
	}

	ownerList, err := env.quizzes.ListVisible(owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ownerList) != 1 {
		t.Fatalf("expected 1 visible quiz for owner, got %d", len(ownerList))
	}
	strangerList, err := env.quizzes.ListVisible(stranger.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(strangerList) != 0 {
		t.Fatalf("expected no visible quizzes for stranger, got %d", len(strangerList))
	}
}

func TestUpdateScalarsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", model.Owner)
	other := env.createUser(t, "other@example.com", model.Owner)
	quiz := env.createQuiz(t, owner.ID, 1, 1)

	title := "Renamed"
	updated, err := env.quizzes.Update(owner.ID, quiz.ID, service.QuizUpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("expected renamed title, got %q", updated.Title)
	}

	if _, err := env.quizzes.Update(other.ID, quiz.ID, service.QuizUpdateRequest{Title: &title}); err != util.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound for foreign owner, got %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", model.Owner)
	alice := env.createUser(t, "alice@example.com", model.Participant)
	quiz := env.createQuiz(t, owner.ID, 2, 2)
	env.publish(t, owner.ID, quiz.ID)

	if _, err := env.memberships.Enroll(owner.ID, quiz.ID, []string{alice.ID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	q := quiz.Questions[0]
	if _, err := env.memberships.Submit(alice.ID, service.SubmitRequest{
		QuizID: quiz.ID, QuestionID: q.ID, OptionID: q.Options[0].ID,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := env.quizzes.Delete(owner.ID, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// 级联把题目、选项、成员关系和提交记录一并带走
	for table, dest := range map[string]interface{}{
		"quizzes":     &model.Quiz{},
		"questions":   &model.Question{},
		"options":     &model.Option{},
		"memberships": &model.Membership{},
		"submissions": &model.Submission{},
	} {
		var count int64
		if err := env.db.Model(dest).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected 0 rows in %s after quiz delete, got %d", table, count)
		}
	}
}

func TestReadViewHidesCorrectAndKeepsOrder(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", model.Owner)
	quiz := env.createQuiz(t, owner.ID, 3, 2)

	view := service.BuildView(quiz)
	if len(view.Questions) != 3 {
		t.Fatalf("expected 3 questions in view, got %d", len(view.Questions))
	}
	for i, q := range view.Questions {
		if q.Position != i+1 {
			t.Fatalf("view question %d out of order: position %d", i, q.Position)
		}
		if len(q.Options) != 2 {
			t.Fatalf("expected 2 options, got %d", len(q.Options))
		}
	}
}

// ---- test env ----

type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	auth        *service.AuthService
	quizzes     *service.QuizService
	memberships *service.MembershipService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// 打开外键约束，级联删除才会在 sqlite 上生效
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	// 内存库只留一条连接，避免每个连接各开一个空库
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	return &testEnv{
		db:          db,
		users:       userRepo,
		auth:        service.NewAuthService(userRepo),
		quizzes:     service.NewQuizService(quizRepo, db),
		memberships: service.NewMembershipService(membershipRepo, quizRepo, db),
	}
}

func (e *testEnv) createUser(t *testing.T, email string, role model.UserRole) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		FirstName: "Test",
		LastName:  string(role),
		Email:     email,
		Password:  string(hash),
		Role:      role,
		IsActive:  true,
	}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// createQuiz 建一个 questions×options 的测验，每题 5 分，第一个选项为正确答案
func (e *testEnv) createQuiz(t *testing.T, ownerID string, questions, options int) *model.Quiz {
	t.Helper()
	req := service.QuizWriteRequest{Title: "Test quiz"}
	for i := 0; i < questions; i++ {
		q := service.QuestionWriteRequest{
			Body:   "Question body",
			Points: 5,
		}
		for j := 0; j < options; j++ {
			q.Options = append(q.Options, service.OptionWriteRequest{
				Text:    "Option text",
				Correct: j == 0,
			})
		}
		req.Questions = append(req.Questions, q)
	}
	quiz, err := e.quizzes.Create(ownerID, req)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func (e *testEnv) publish(t *testing.T, ownerID, quizID string) {
	t.Helper()
	if _, err := e.quizzes.Publish(ownerID, quizID); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
