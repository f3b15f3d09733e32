package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/bookshelf-api/internal/store"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrProfileNotFound,
		ErrBookNotFound,
		ErrBookAlreadyOwned,
		ErrBookNotOwned,
		ErrUsernameTaken,
		ErrEmailTaken,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestNotFoundIncludesID(t *testing.T) {
	id := uuid.MustParse("5f0c6f4e-8f59-4c61-9a8e-3f1f3d0a5b7e")
	err := notFound(ErrBookNotFound, id)

	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.Equal(t, "book not found: 5f0c6f4e-8f59-4c61-9a8e-3f1f3d0a5b7e", err.Error())
}

func TestServiceError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		assert.Equal(t, "book: delete failed", NewServiceError("book", "delete", nil).Error())
		assert.Equal(t, "account: register failed: disk full",
			NewServiceError("account", "register", errors.New("disk full")).Error())
	})

	t.Run("keeps the store error reachable", func(t *testing.T) {
		cause := store.NewStoreError("profile", "update", "update failed", store.ErrInvalidEntity)
		err := fmt.Errorf("handler: %w", NewServiceError("profile", "update", cause))

		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		var se *ServiceError
		if assert.ErrorAs(t, err, &se) {
			assert.Equal(t, "profile", se.Service)
			assert.Equal(t, "update", se.Op)
		}
		var storeErr *store.StoreError
		assert.ErrorAs(t, err, &storeErr)
	})

	t.Run("nil cause unwraps to nil", func(t *testing.T) {
		assert.Nil(t, NewServiceError("book", "get", nil).Unwrap())
	})
}
