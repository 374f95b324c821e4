package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-coder/config"
	"ai-coder/infra/database"
	"ai-coder/services/coder-service/internal/domain"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/model"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testEnv struct {
	db           *gorm.DB
	sessions     *repository.SessionRepository
	interactions *repository.InteractionRepository
	users        *repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("NewSQLiteDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.CreateTables(model.All()...); err != nil {
		t.Fatalf("CreateTables() error = %v", err)
	}
	return &testEnv{
		db:           db.DB,
		sessions:     repository.NewSessionRepository(db.DB),
		interactions: repository.NewInteractionRepository(db.DB),
		users:        repository.NewUserRepository(db.DB),
	}
}

// setActive flips is_active without the single-active policy, as old rows may have.
func setActive(env *testEnv, sessionID string) error {
	return env.db.Model(&model.SessionModel{}).
		Where("session_id = ?", sessionID).
		UpdateColumn("is_active", true).Error
}

func stepClock() domain.Clock {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		Model:            "deepseek-coder",
		Temperature:      0.7,
		ThinkTemperature: 0.9,
		MaxTokens:        2000,
		ContextSize:      3,
	}
}

func testCoderConfig() config.CoderConfig {
	return config.CoderConfig{DefaultLanguage: "python", Languages: config.DefaultLanguages()}
}

type fakeModel struct {
	text  string
	err   error
	calls []*domain.GenerateRequest
}

func (f *fakeModel) Generate(_ context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.GenerateResponse{Text: f.text, Model: req.Model}, nil
}

// upperFormatter stands in for black: it upper-cases python and rejects "bad".
type upperFormatter struct {
	available bool
	seen      []string
}

func (f *upperFormatter) Available() bool { return f.available }

func (f *upperFormatter) Format(_ context.Context, code, language string) (string, error) {
	f.seen = append(f.seen, language)
	if language != "python" {
		return code, nil
	}
	if strings.Contains(code, "bad") {
		return "", fmt.Errorf("%w: cannot parse", domain.ErrFormatFailed)
	}
	return strings.ToUpper(code), nil
}

type fakeExecutor struct {
	output string
	err    error
}

func (f fakeExecutor) Execute(context.Context, string) (string, error) {
	return f.output, f.err
}
