package session

import (
	"context"
	"errors"
	"testing"

	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
	tu "github.com/nmoreras/soundpost/internal/testing"
)

// fakeAPI is a scripted VerifyAPI double.
type fakeAPI struct {
	token      string
	verifyUser *models.User
	verifyErr  error
	calls      int
}

func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) VerifyAuth(ctx context.Context) (*models.User, error) {
	f.calls++
	return f.verifyUser, f.verifyErr
}

func seededStorage(t *testing.T, token string, user *models.User) *tu.MemoryStorage {
	t.Helper()
	storage := tu.NewMemoryStorage()
	if token != "" {
		if err := storage.Set(KeyToken, token); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}
	if user != nil {
		if err := SaveUser(storage, user); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
	return storage
}

func TestStore(t *testing.T) {
	t.Run("Init", func(t *testing.T) {
		t.Run("Without Token Goes Straight To Ready", func(t *testing.T) {
			store := NewStore(tu.NewMemoryStorage(), &fakeAPI{}, nil)

			hasToken, err := store.Init()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if hasToken {
				t.Error("expected hasToken == false")
			}

			state := store.Snapshot()
			if state.Loading || state.IsAuthenticated {
				t.Errorf("expected unauthenticated-ready state, got %+v", state)
			}
		})

		t.Run("With Token Stages Cached Identity", func(t *testing.T) {
			cached := &models.User{ID: "u1", Email: "a@b.c", Username: "ana"}
			api := &fakeAPI{}
			store := NewStore(seededStorage(t, "tok", cached), api, nil)

			hasToken, err := store.Init()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !hasToken {
				t.Fatal("expected hasToken == true")
			}

			state := store.Snapshot()
			if !state.Loading {
				t.Error("expected loading during verification window")
			}
			if state.IsAuthenticated {
				t.Error("cached identity must not be trusted before verify")
			}
			if state.User == nil || state.User.Email != "a@b.c" {
				t.Errorf("expected cached user staged, got %+v", state.User)
			}
			if api.token != "tok" {
				t.Errorf("expected token installed on API client, got %q", api.token)
			}
		})
	})

	t.Run("Verify", func(t *testing.T) {
		t.Run("Success Merges Server Fields Over Cache", func(t *testing.T) {
			cached := &models.User{ID: "u1", Email: "a@b.c", Username: "old-name", AvatarURL: "cached.png"}
			api := &fakeAPI{verifyUser: &models.User{ID: "u1", Email: "a@b.c", Username: "new-name"}}
			storage := seededStorage(t, "tok", cached)
			store := NewStore(storage, api, nil)
			store.Init()

			if err := store.Verify(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			state := store.Snapshot()
			if !state.IsAuthenticated || state.Loading {
				t.Errorf("expected authenticated-ready, got %+v", state)
			}
			if state.Token != "tok" {
				t.Errorf("expected token retained, got %q", state.Token)
			}
			if state.User.Username != "new-name" {
				t.Errorf("server field should win, got %q", state.User.Username)
			}
			if state.User.AvatarURL != "cached.png" {
				t.Errorf("empty server field should keep cached value, got %q", state.User.AvatarURL)
			}

			persisted, _ := LoadUser(storage)
			if persisted == nil || persisted.Username != "new-name" {
				t.Errorf("expected merged user persisted, got %+v", persisted)
			}
		})

		t.Run("Rejected Token Clears Session And Storage", func(t *testing.T) {
			api := &fakeAPI{verifyErr: shared.ErrTokenRejected}
			storage := seededStorage(t, "expired", &models.User{Email: "a@b.c"})
			store := NewStore(storage, api, nil)
			store.Init()

			if err := store.Verify(context.Background()); err != nil {
				t.Fatalf("rejected token must not surface as error, got %v", err)
			}

			state := store.Snapshot()
			if state.IsAuthenticated || state.Loading || state.Token != "" || state.User != nil {
				t.Errorf("expected fully cleared session, got %+v", state)
			}
			if storage.Len() != 0 {
				t.Errorf("expected storage cleared, still has %d keys", storage.Len())
			}
			if api.token != "" {
				t.Errorf("expected API token cleared, got %q", api.token)
			}
		})

		t.Run("Network Failure Also Clears Session", func(t *testing.T) {
			api := &fakeAPI{verifyErr: errors.New("connection refused")}
			storage := seededStorage(t, "tok", nil)
			store := NewStore(storage, api, nil)
			store.Init()

			if err := store.Verify(context.Background()); err != nil {
				t.Fatalf("network failure must not surface as error, got %v", err)
			}
			if store.IsAuthenticated() {
				t.Error("expected unauthenticated after network failure")
			}
			if storage.Len() != 0 {
				t.Error("expected storage cleared after network failure")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Persists Identity And Installs Token", func(t *testing.T) {
			api := &fakeAPI{}
			storage := tu.NewMemoryStorage()
			store := NewStore(storage, api, nil)

			user := &models.User{ID: "u1", Email: "a@b.c", Username: "ana", AvatarURL: "pic.png"}
			if err := store.Login(user, "fresh-token"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			state := store.Snapshot()
			if !state.IsAuthenticated || state.Token != "fresh-token" {
				t.Errorf("expected authenticated with token, got %+v", state)
			}

			token, _ := storage.Get(KeyToken)
			if token != "fresh-token" {
				t.Errorf("expected token persisted, got %q", token)
			}
			for key, want := range map[string]string{
				KeyEmail:     "a@b.c",
				KeyUsername:  "ana",
				KeyAvatarURL: "pic.png",
			} {
				if got, _ := storage.Get(key); got != want {
					t.Errorf("expected %s == %q, got %q", key, want, got)
				}
			}
			if api.token != "fresh-token" {
				t.Errorf("expected token installed on API client, got %q", api.token)
			}
		})

		t.Run("Rejects Empty Token", func(t *testing.T) {
			store := NewStore(tu.NewMemoryStorage(), &fakeAPI{}, nil)
			if err := store.Login(&models.User{Email: "a@b.c"}, ""); err == nil {
				t.Error("expected error for empty token")
			}
		})
	})

	t.Run("Logout Resets Everything", func(t *testing.T) {
		api := &fakeAPI{verifyUser: &models.User{Email: "a@b.c"}}
		storage := seededStorage(t, "tok", &models.User{Email: "a@b.c"})
		store := NewStore(storage, api, nil)
		store.Init()
		store.Verify(context.Background())

		if err := store.Logout(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.IsAuthenticated() || store.Email() != "" {
			t.Error("expected unauthenticated after logout")
		}
		if storage.Len() != 0 {
			t.Error("expected storage cleared after logout")
		}
	})

	t.Run("UpdateUser", func(t *testing.T) {
		t.Run("Shallow Merge Keeps Token And Auth", func(t *testing.T) {
			api := &fakeAPI{verifyUser: &models.User{Email: "a@b.c", Username: "ana"}}
			storage := seededStorage(t, "tok", &models.User{Email: "a@b.c"})
			store := NewStore(storage, api, nil)
			store.Init()
			store.Verify(context.Background())

			if err := store.UpdateUser(&models.User{AvatarURL: "new.png"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			state := store.Snapshot()
			if !state.IsAuthenticated || state.Token != "tok" {
				t.Errorf("update must not touch auth state, got %+v", state)
			}
			if state.User.AvatarURL != "new.png" || state.User.Username != "ana" {
				t.Errorf("expected shallow merge, got %+v", state.User)
			}

			if got, _ := storage.Get(KeyAvatarURL); got != "new.png" {
				t.Errorf("expected avatarUrl re-persisted, got %q", got)
			}
		})

		t.Run("Fails Without Session User", func(t *testing.T) {
			store := NewStore(tu.NewMemoryStorage(), &fakeAPI{}, nil)
			if err := store.UpdateUser(&models.User{Username: "x"}); err == nil {
				t.Error("expected error when no user in session")
			}
		})
	})

	t.Run("Snapshot Returns A Copy", func(t *testing.T) {
		api := &fakeAPI{}
		store := NewStore(tu.NewMemoryStorage(), api, nil)
		store.Login(&models.User{Email: "a@b.c", Username: "ana"}, "tok")

		snap := store.Snapshot()
		snap.User.Username = "mutated"

		if store.Snapshot().User.Username != "ana" {
			t.Error("snapshot mutation leaked into the store")
		}
	})
}
