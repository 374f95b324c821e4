package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ai-coder/infra/database"
	"ai-coder/services/coder-service/internal/domain"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("NewSQLiteDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.CreateTables(model.All()...); err != nil {
		t.Fatalf("CreateTables() error = %v", err)
	}
	return db.DB
}

func countInteractions(t *testing.T, db *gorm.DB, sessionID string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.InteractionModel{}).Where("session_id = ?", sessionID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func newSession(userID string, active bool, at time.Time) *domain.Session {
	return &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     domain.DefaultSessionTitle,
		IsActive:  active,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestSessionCreateKeepsSingleActive(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	first := newSession("u1", true, base)
	other := newSession("u2", true, base)
	second := newSession("u1", true, base.Add(time.Minute))
	for _, s := range []*domain.Session{first, other, second} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	active, err := repo.FindActive(ctx, "u1")
	if err != nil {
		t.Fatalf("FindActive() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("FindActive(u1) = %v, want only %s", active, second.ID)
	}

	got, err := repo.FindByID(ctx, "u1", first.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.IsActive {
		t.Error("first session still active")
	}
	if !got.UpdatedAt.Equal(base) {
		t.Errorf("deactivation moved updated_at to %v", got.UpdatedAt)
	}

	// other users are untouched
	active, _ = repo.FindActive(ctx, "u2")
	if len(active) != 1 {
		t.Errorf("FindActive(u2) = %d sessions, want 1", len(active))
	}
}

func TestSessionUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	a := newSession("u1", true, base)
	b := newSession("u1", false, base.Add(time.Minute))
	for _, s := range []*domain.Session{a, b} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	b.Title = "renamed"
	b.IsActive = true
	b.UpdatedAt = base.Add(2 * time.Minute)
	if err := repo.Update(ctx, b); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := repo.FindByID(ctx, "u1", b.ID)
	if got.Title != "renamed" || !got.IsActive {
		t.Errorf("FindByID() = %+v", got)
	}
	got, _ = repo.FindByID(ctx, "u1", a.ID)
	if got.IsActive {
		t.Error("Update() left previous session active")
	}

	// deactivating writes false, which a struct update would skip
	b.IsActive = false
	if err := repo.Update(ctx, b); err != nil {
		t.Fatal(err)
	}
	active, _ := repo.FindActive(ctx, "u1")
	if len(active) != 0 {
		t.Errorf("FindActive() = %d sessions, want 0", len(active))
	}

	foreign := *b
	foreign.UserID = "u2"
	if err := repo.Update(ctx, &foreign); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Update(foreign) error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionFindByIDScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	s := newSession("u1", false, base)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByID(ctx, "u2", s.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("FindByID(u2) error = %v, want ErrSessionNotFound", err)
	}
	if _, err := repo.FindByID(ctx, "u1", uuid.NewString()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("FindByID(missing) error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionFindByUserIDPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	var ids []string
	for i := 0; i < 5; i++ {
		s := newSession("u1", false, base.Add(time.Duration(i)*time.Minute))
		if err := repo.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, s.ID)
	}

	page, err := repo.FindByUserID(ctx, "u1", 2, 1)
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len(page) = %d, want 2", len(page))
	}
	// newest first: ids[4] is skipped by the offset
	if page[0].ID != ids[3] || page[1].ID != ids[2] {
		t.Errorf("page = [%s %s], want [%s %s]", page[0].ID, page[1].ID, ids[3], ids[2])
	}
}

func TestSessionDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sessions := NewSessionRepository(db)
	interactions := NewInteractionRepository(db)

	s := newSession("u1", true, base)
	if err := sessions.Create(ctx, s); err != nil {
		t.Fatal(err)
	}
	in := &domain.Interaction{ID: uuid.NewString(), SessionID: s.ID, Prompt: "p", Response: "r", Language: "python", CreatedAt: base}
	if err := interactions.Save(ctx, in); err != nil {
		t.Fatal(err)
	}

	if err := sessions.Delete(ctx, "u2", s.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Delete(foreign) error = %v, want ErrSessionNotFound", err)
	}
	if err := sessions.Delete(ctx, "u1", s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n := countInteractions(t, db, s.ID); n != 0 {
		t.Errorf("%d interactions left after delete, want 0", n)
	}
}

func TestInteractionSaveAndOrdering(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sessions := NewSessionRepository(db)
	repo := NewInteractionRepository(db)

	s := newSession("u1", true, base)
	if err := sessions.Create(ctx, s); err != nil {
		t.Fatal(err)
	}

	var ids []string
	for i := 0; i < 4; i++ {
		in := &domain.Interaction{
			ID:        uuid.NewString(),
			SessionID: s.ID,
			Prompt:    fmt.Sprintf("p%d", i),
			Response:  fmt.Sprintf("r%d", i),
			Language:  "python",
			CreatedAt: base.Add(time.Duration(i+1) * time.Minute),
		}
		if err := repo.Save(ctx, in); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		ids = append(ids, in.ID)
	}

	all, err := repo.FindBySessionID(ctx, s.ID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[0].ID != ids[0] || all[3].ID != ids[3] {
		t.Errorf("FindBySessionID() not oldest first: %v", all)
	}

	recent, err := repo.FindRecent(ctx, s.ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 || recent[0].ID != ids[3] || recent[2].ID != ids[1] {
		t.Errorf("FindRecent() not newest first: %v", recent)
	}

	got, _ := sessions.FindByID(ctx, "u1", s.ID)
	if want := base.Add(4 * time.Minute); !got.UpdatedAt.Equal(want) {
		t.Errorf("session updated_at = %v, want %v", got.UpdatedAt, want)
	}

	if n := countInteractions(t, db, s.ID); n != 4 {
		t.Errorf("stored %d interactions, want 4", n)
	}
	byUser, _ := repo.FindByUserID(ctx, "u1", 2, 0)
	if len(byUser) != 2 || byUser[0].ID != ids[3] {
		t.Errorf("FindByUserID() = %v", byUser)
	}
}

func TestInteractionOwnership(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sessions := NewSessionRepository(db)
	repo := NewInteractionRepository(db)

	s := newSession("u1", true, base)
	if err := sessions.Create(ctx, s); err != nil {
		t.Fatal(err)
	}
	in := &domain.Interaction{ID: uuid.NewString(), SessionID: s.ID, Prompt: "p", Response: "r", Language: "python", CreatedAt: base}
	if err := repo.Save(ctx, in); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.FindByID(ctx, "u2", in.ID); !errors.Is(err, domain.ErrInteractionNotFound) {
		t.Errorf("FindByID(foreign) error = %v, want ErrInteractionNotFound", err)
	}
	if err := repo.Delete(ctx, "u2", in.ID); !errors.Is(err, domain.ErrInteractionNotFound) {
		t.Errorf("Delete(foreign) error = %v, want ErrInteractionNotFound", err)
	}
	if err := repo.Delete(ctx, "u1", in.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByID(ctx, "u1", in.ID); !errors.Is(err, domain.ErrInteractionNotFound) {
		t.Errorf("FindByID(deleted) error = %v", err)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := &domain.User{ID: uuid.NewString(), Username: "Alice", Email: "alice@example.com", Password: "hash"}
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	dup := &domain.User{ID: uuid.NewString(), Username: "Alice", Email: "other@example.com", Password: "hash"}
	if err := repo.Save(ctx, dup); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("Save(duplicate) error = %v, want ErrUserAlreadyExists", err)
	}

	tests := []struct {
		name  string
		login string
		ok    bool
	}{
		{name: "username", login: "Alice", ok: true},
		{name: "username case", login: "alice", ok: true},
		{name: "email case", login: "ALICE@example.com", ok: true},
		{name: "unknown", login: "bob", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindByLogin(ctx, tt.login)
			if !tt.ok {
				if !errors.Is(err, domain.ErrUserNotFound) {
					t.Errorf("FindByLogin(%q) error = %v, want ErrUserNotFound", tt.login, err)
				}
				return
			}
			if err != nil || got.ID != u.ID {
				t.Errorf("FindByLogin(%q) = %v, %v", tt.login, got, err)
			}
		})
	}

	if _, err := repo.FindByID(ctx, u.ID); err != nil {
		t.Errorf("FindByID() error = %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "Alice@Example.com"); err != nil {
		t.Errorf("FindByEmail() error = %v", err)
	}
}
