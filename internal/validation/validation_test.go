// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	gerrors "github.com/nitinol/nitinol/errors"
)

type validationTestSuite struct {
	suite.Suite
}

func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
		s.Assert().False(chain.failFast)
	})
	s.Run("new chain with options", func() {
		s.Assert().True(New(FailFast()).failFast)
		s.Assert().False(New(AllErrors()).failFast)
	})
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with all errors", func() {
		err := New().
			AddValidator(NewEmptyStringValidator("name", "")).
			AddAssertion(false, "capacity must be positive").
			Validate()
		s.Assert().Error(err)
		s.Assert().Contains(err.Error(), "the [name] is required")
		s.Assert().Contains(err.Error(), "capacity must be positive")
	})
	s.Run("with fail fast", func() {
		err := New(FailFast()).
			AddAssertion(false, "first").
			AddAssertion(false, "second").
			Validate()
		s.Assert().EqualError(err, "first")
	})
	s.Run("with no violation", func() {
		err := New().
			AddValidator(NewEmptyStringValidator("name", "counter")).
			AddAssertion(true, "never").
			Validate()
		s.Assert().NoError(err)
	})
}

func (s *validationTestSuite) TestPatternValidator() {
	s.Assert().NoError(NewPatternValidator(`^\d+$`, "123", nil).Validate())
	s.Assert().EqualError(NewPatternValidator(`^\d+$`, "abc", nil).Validate(), "invalid expression")
	s.Assert().ErrorIs(NewPatternValidator(`^\d+$`, "abc", gerrors.ErrInvalidIdentity).Validate(), gerrors.ErrInvalidIdentity)
}

func (s *validationTestSuite) TestIDValidator() {
	s.Run("with happy path", func() {
		s.Assert().NoError(NewIDValidator("persistence-writer_1").Validate())
	})
	s.Run("with empty id", func() {
		s.Assert().Error(NewIDValidator(" ").Validate())
	})
	s.Run("with invalid length", func() {
		s.Assert().Error(NewIDValidator(strings.Repeat("a", 300)).Validate())
	})
	s.Run("with invalid characters", func() {
		s.Assert().ErrorIs(NewIDValidator("$omeN@me").Validate(), gerrors.ErrInvalidExtensionID)
	})
	s.Run("with leading dash", func() {
		s.Assert().ErrorIs(NewIDValidator("-writer").Validate(), gerrors.ErrInvalidExtensionID)
	})
}
