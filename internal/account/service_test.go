package account

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/ceylon/internal/model"
)

type mockUserRepo struct {
	findByIDFn          func(ctx context.Context, id string) (*model.User, error)
	updateDisplayNameFn func(ctx context.Context, id, name string) error
	deleteByIDFn        func(ctx context.Context, id string) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepo) UpdateDisplayName(ctx context.Context, id, name string) error {
	if m.updateDisplayNameFn != nil {
		return m.updateDisplayNameFn(ctx, id, name)
	}
	return nil
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error { return nil }

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error { return nil }

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockSessionRepo struct {
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error { return nil }

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error { return nil }

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

type mockPrefRepo struct {
	findByUserIDFn   func(ctx context.Context, userID string) (*model.Preferences, error)
	upsertFn         func(ctx context.Context, prefs *model.Preferences) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockPrefRepo) FindByUserID(ctx context.Context, userID string) (*model.Preferences, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockPrefRepo) Upsert(ctx context.Context, prefs *model.Preferences) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, prefs)
	}
	return nil
}

func (m *mockPrefRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

func TestUpdateDisplayName_TrimsAndStores(t *testing.T) {
	var storedName string
	userRepo := &mockUserRepo{
		updateDisplayNameFn: func(ctx context.Context, id, name string) error {
			storedName = name
			return nil
		},
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, DisplayName: storedName}, nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, &mockPrefRepo{})

	user, err := svc.UpdateDisplayName(context.Background(), "user-123", "  Kamala Silva  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if storedName != "Kamala Silva" {
		t.Errorf("stored name = %q, want trimmed %q", storedName, "Kamala Silva")
	}
	if user.DisplayName != "Kamala Silva" {
		t.Errorf("returned name = %q", user.DisplayName)
	}
}

func TestUpdateDisplayName_BlankRejected(t *testing.T) {
	updateCalled := false
	userRepo := &mockUserRepo{
		updateDisplayNameFn: func(ctx context.Context, id, name string) error {
			updateCalled = true
			return nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, &mockPrefRepo{})

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.UpdateDisplayName(context.Background(), "user-123", name)
		if err == nil {
			t.Fatalf("UpdateDisplayName(%q): expected error", name)
		}
		apiErr, ok := err.(*model.APIError)
		if !ok {
			t.Fatalf("expected *model.APIError, got %T", err)
		}
		if apiErr.Code != model.ErrCodeValidation {
			t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeValidation)
		}
	}
	if updateCalled {
		t.Error("update must not run for blank names")
	}
}

func TestGetPreferences_ReturnsDefaultsWhenUnsaved(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, &mockPrefRepo{})

	prefs, err := svc.GetPreferences(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if prefs.DarkMode {
		t.Error("dark mode should default to off")
	}
	if !prefs.Notifications {
		t.Error("notifications should default to on")
	}
	if !prefs.Location {
		t.Error("location should default to on")
	}
}

func TestGetPreferences_ReturnsSavedValues(t *testing.T) {
	prefRepo := &mockPrefRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Preferences, error) {
			return &model.Preferences{UserID: userID, DarkMode: true, Notifications: false, Location: true}, nil
		},
	}
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, prefRepo)

	prefs, err := svc.GetPreferences(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !prefs.DarkMode || prefs.Notifications {
		t.Errorf("saved values not returned: %+v", prefs)
	}
}

func TestUpdatePreferences_PersistsValues(t *testing.T) {
	var saved *model.Preferences
	prefRepo := &mockPrefRepo{
		upsertFn: func(ctx context.Context, prefs *model.Preferences) error {
			saved = prefs
			return nil
		},
	}
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, prefRepo)

	prefs, err := svc.UpdatePreferences(context.Background(), "user-123", true, false, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil {
		t.Fatal("expected preferences to be persisted")
	}
	if saved.UserID != "user-123" || !saved.DarkMode || saved.Notifications || !saved.Location {
		t.Errorf("persisted = %+v", saved)
	}
	if prefs.DarkMode != saved.DarkMode {
		t.Error("returned preferences should mirror persisted values")
	}
}

func TestWithdraw_DeletesInOrder(t *testing.T) {
	var order []string
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			order = append(order, "user")
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			order = append(order, "sessions")
			return nil
		},
	}
	prefRepo := &mockPrefRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			order = append(order, "preferences")
			return nil
		},
	}
	svc := NewService(userRepo, sessionRepo, prefRepo)

	if err := svc.Withdraw(context.Background(), "user-123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"preferences", "sessions", "user"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestWithdraw_UnknownUser_ReturnsNotFound(t *testing.T) {
	deleteCalled := false
	userRepo := &mockUserRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, &mockPrefRepo{})

	err := svc.Withdraw(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
	if deleteCalled {
		t.Error("delete must not run for unknown user")
	}
}

func TestWithdraw_StopsOnSessionDeleteFailure(t *testing.T) {
	userDeleted := false
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			userDeleted = true
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			return errors.New("db down")
		},
	}
	svc := NewService(userRepo, sessionRepo, &mockPrefRepo{})

	if err := svc.Withdraw(context.Background(), "user-123"); err == nil {
		t.Fatal("expected error, got nil")
	}
	if userDeleted {
		t.Error("user must not be deleted when session cleanup fails")
	}
}
