package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassifier(t *testing.T) {
	classifier := NewErrorClassifier()

	t.Run("should classify lock errors", func(t *testing.T) {
		lockErrors := []string{
			"deadlock detected",
			"lock timeout exceeded",
			"lock not available",
			"could not serialize access due to concurrent update",
			"ERROR: canceling statement due to statement timeout",
		}

		for _, message := range lockErrors {
			err := errors.New(message)
			assert.True(t, classifier.IsLockError(err), "message %q", message)
			assert.Equal(t, LockError, classifier.Classify(err))
		}
	})

	t.Run("should classify constraint errors", func(t *testing.T) {
		constraintErrors := []string{
			"insert or update on table violates foreign key constraint",
			"null value in column violates not null constraint",
			"duplicate key value violates unique constraint",
		}

		for _, message := range constraintErrors {
			assert.True(t, classifier.IsConstraintError(errors.New(message)), "message %q", message)
		}
	})

	t.Run("should classify duplicate key errors", func(t *testing.T) {
		err := errors.New(`duplicate key value violates unique constraint "users_pkey"`)
		assert.True(t, classifier.IsDuplicateKeyError(err))
		assert.Equal(t, DuplicateKeyError, classifier.Classify(err))
	})

	t.Run("should classify transient connection errors", func(t *testing.T) {
		transientErrors := []string{
			"read tcp: connection reset by peer",
			"dial tcp: connection refused",
			"unexpected EOF",
			"write: broken pipe",
		}

		for _, message := range transientErrors {
			err := errors.New(message)
			assert.True(t, classifier.IsTransientError(err), "message %q", message)
			assert.True(t, classifier.IsConnectionError(err), "message %q", message)
		}
	})

	t.Run("should not classify unrelated errors", func(t *testing.T) {
		assert.Equal(t, ErrorType(""), classifier.Classify(errors.New("record not found")))
		assert.Equal(t, ErrorType(""), classifier.Classify(nil))
	})
}
