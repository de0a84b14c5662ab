package validator_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamwallet/authcore/pkg/validator"
)

var phonePattern = regexp.MustCompile(`^0[0-9]{9}$`)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("username", "somchai", "required"),
			validator.MinLen("username", "somchai", 3, "too short"),
			validator.Matches("phone", "0812345678", phonePattern, "bad phone"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("username", "  ", "username required"),
			validator.MinLen("password", "ab", 6, "password too short"),
		)
		require.Error(t, err)

		ve := validator.Extract(err)
		require.Len(t, ve, 2)
		assert.Equal(t, "username", ve[0].Field)
		assert.Equal(t, "username required", ve[0].Message)
		assert.Equal(t, "password", ve[1].Field)
	})

	t.Run("optional skips empty values", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Optional("", validator.Matches("phone", "", phonePattern, "bad phone")),
		)
		assert.NoError(t, err)

		err = validator.Apply(
			validator.Optional("12345", validator.Matches("phone", "12345", phonePattern, "bad phone")),
		)
		require.Error(t, err)
	})

	t.Run("equals", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validator.Apply(validator.Equals("confirmPassword", "a", "a", "mismatch")))
		assert.Error(t, validator.Apply(validator.Equals("confirmPassword", "a", "b", "mismatch")))
	})

	t.Run("max length", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, validator.Apply(validator.MaxLen("username", "abcdef", 5, "too long")))
	})
}

func TestExtract(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validator.Extract(nil))
	assert.Nil(t, validator.Extract(errors.New("boom")))

	err := validator.Apply(validator.Required("f", "", "msg"))
	assert.NotNil(t, validator.Extract(err))
}
