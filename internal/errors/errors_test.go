package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/habitquest/combat-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "enemy not found",
			expected: "NOT_FOUND: enemy not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid input",
			expected: "INVALID_ARGUMENT: invalid input",
		},
		{
			name:     "failed precondition error",
			code:     errors.CodeFailedPrecondition,
			message:  "combat already active",
			expected: "FAILED_PRECONDITION: combat already active",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	inner := errors.NotFound("dungeon not found")
	wrapped := errors.Wrap(inner, "failed to start dungeon")

	s.True(errors.IsNotFound(wrapped))
	s.Contains(wrapped.Error(), "failed to start dungeon")
	s.Contains(wrapped.Error(), "dungeon not found")
}

func (s *ErrorsTestSuite) TestWrapPlainError() {
	inner := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(inner, "failed to load character")

	s.True(errors.IsInternal(wrapped))
}

func (s *ErrorsTestSuite) TestWrapNilReturnsNil() {
	s.Nil(errors.Wrap(nil, "context"))
}

func (s *ErrorsTestSuite) TestReasons() {
	err := errors.InvalidArgument("not enough mana").
		WithReason(errors.ReasonInsufficientMana)

	s.True(errors.HasReason(err, errors.ReasonInsufficientMana))
	s.False(errors.HasReason(err, errors.ReasonRingSlotsFull))
	s.Equal(errors.ReasonInsufficientMana, errors.GetReason(err))
}

func (s *ErrorsTestSuite) TestFormattedConstructors() {
	err := errors.ResourceExhaustedf("rest available again at %s", "2026-08-30T12:00:00Z").
		WithReason(errors.ReasonRestOnCooldown)

	s.Equal(errors.CodeResourceExhausted, errors.GetCode(err))
	s.Equal("rest available again at 2026-08-30T12:00:00Z", errors.GetMessage(err))
	s.True(errors.IsResourceExhausted(err))

	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(errors.FailedPreconditionf("run %d", 2)))
	s.Equal(errors.CodeInvalidArgument, errors.GetCode(errors.InvalidArgumentf("slot %q", "ring5")))
}

func (s *ErrorsTestSuite) TestReasonSurvivesWrap() {
	inner := errors.FailedPrecondition("combat already active").
		WithReason(errors.ReasonCombatAlreadyActive)
	wrapped := errors.Wrap(inner, "initiate failed")

	s.True(errors.HasReason(wrapped, errors.ReasonCombatAlreadyActive))
}

func (s *ErrorsTestSuite) TestMetadata() {
	err := errors.NotFound("character not found").
		WithMeta("character_id", "char_123")

	meta := errors.GetMeta(err)
	s.Equal("char_123", meta["character_id"])
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	s.Equal(http.StatusNotFound, errors.CodeNotFound.HTTPStatus())
	s.Equal(http.StatusBadRequest, errors.CodeInvalidArgument.HTTPStatus())
	s.Equal(http.StatusConflict, errors.CodeFailedPrecondition.HTTPStatus())
	s.Equal(http.StatusConflict, errors.CodeAlreadyExists.HTTPStatus())
	s.Equal(http.StatusTooManyRequests, errors.CodeResourceExhausted.HTTPStatus())
	s.Equal(http.StatusInternalServerError, errors.CodeInternal.HTTPStatus())
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("CharacterRepo")
	vb.InvalidField("Level", "must be at least 1")

	err := vb.Build()
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "CharacterRepo")
}

func (s *ErrorsTestSuite) TestValidationBuilderEmpty() {
	s.NoError(errors.NewValidationBuilder().Build())
}
