package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doggy-rescue/internal/domain"
)

func seed(t *testing.T) (*Store, *domain.User, *domain.Dog) {
	t.Helper()
	s := New()
	ctx := context.Background()
	u := &domain.User{Email: "alice@x.com"}
	require.NoError(t, s.Users().Create(ctx, u))
	d := &domain.Dog{Name: "Rex", Breed: "Beagle"}
	require.NoError(t, s.Dogs().Create(ctx, d))
	return s, u, d
}

func TestConcurrentSubmitAdmitsOne(t *testing.T) {
	s, u, d := seed(t)
	var ok, dup int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Adoptions().Create(context.Background(), &domain.AdoptionRequest{UserID: u.ID, DogID: d.ID})
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrDuplicateRequest):
				atomic.AddInt32(&dup, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(31), dup)
}

func TestConcurrentApproveSucceedsOnce(t *testing.T) {
	s, u, d := seed(t)
	key := domain.RequestKey{UserID: u.ID, DogID: d.ID}
	require.NoError(t, s.Adoptions().Create(context.Background(), &domain.AdoptionRequest{UserID: u.ID, DogID: d.ID}))

	var ok, decided int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Adoptions().Approve(context.Background(), key, false)
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrAlreadyDecided):
				atomic.AddInt32(&decided, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(15), decided)

	dog, err := s.Dogs().FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, dog.Adopted)
}

func TestApproveDeniesSiblingsOnRequest(t *testing.T) {
	s, u, d := seed(t)
	ctx := context.Background()
	bob := &domain.User{Email: "bob@x.com"}
	require.NoError(t, s.Users().Create(ctx, bob))
	require.NoError(t, s.Adoptions().Create(ctx, &domain.AdoptionRequest{UserID: u.ID, DogID: d.ID}))
	require.NoError(t, s.Adoptions().Create(ctx, &domain.AdoptionRequest{UserID: bob.ID, DogID: d.ID}))

	require.NoError(t, s.Adoptions().Approve(ctx, domain.RequestKey{UserID: u.ID, DogID: d.ID}, true))

	other, err := s.Adoptions().Get(ctx, domain.RequestKey{UserID: bob.ID, DogID: d.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDenied, other.Status())
	require.NotNil(t, other.Dog)
	assert.True(t, other.Dog.Adopted)
}

func TestDeleteDogGuard(t *testing.T) {
	s, u, d := seed(t)
	ctx := context.Background()
	require.NoError(t, s.Adoptions().Create(ctx, &domain.AdoptionRequest{UserID: u.ID, DogID: d.ID}))
	assert.ErrorIs(t, s.Dogs().Delete(ctx, d.ID), domain.ErrReferentialConflict)

	free := &domain.Dog{Name: "Luna"}
	require.NoError(t, s.Dogs().Create(ctx, free))
	require.NoError(t, s.Dogs().Delete(ctx, free.ID))
	_, err := s.Dogs().FindByID(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserListFilterAndPage(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, e := range []string{"ana@x.io", "bob@x.io", "anabel@y.io"} {
		require.NoError(t, s.Users().Create(ctx, &domain.User{Email: e}))
	}
	users, total, err := s.Users().List(ctx, domain.UserFilter{Q: "ANA", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 1)

	users, _, err = s.Users().List(ctx, domain.UserFilter{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUpdateKeepsAdminFlagAndChecksEmail(t *testing.T) {
	s, u, _ := seed(t)
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &domain.User{Email: "bob@x.com"}))
	require.NoError(t, s.Users().SetAdmin(ctx, u.ID, true))

	patch := *u
	patch.FirstName = "Alice"
	patch.IsAdmin = false
	require.NoError(t, s.Users().Update(ctx, &patch))
	got, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, "Alice", got.FirstName)

	patch.Email = "bob@x.com"
	assert.ErrorIs(t, s.Users().Update(ctx, &patch), domain.ErrDuplicateEmail)
}
