package validator

import (
	"errors"
	"testing"

	"github.com/edugen/studio/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRegisterForm(t *testing.T) {
	cases := map[string]struct {
		form   model.RegisterForm
		fields []string
	}{
		"valid": {
			form: model.RegisterForm{Email: "ana@example.com", Password: "secret", ConfirmPassword: "secret"},
		},
		"short password": {
			form:   model.RegisterForm{Email: "ana@example.com", Password: "12345", ConfirmPassword: "12345"},
			fields: []string{"password"},
		},
		"mismatched confirmation": {
			form:   model.RegisterForm{Email: "ana@example.com", Password: "secret", ConfirmPassword: "secreT"},
			fields: []string{"confirm_password"},
		},
		"bad email": {
			form:   model.RegisterForm{Email: "ana", Password: "secret", ConfirmPassword: "secret"},
			fields: []string{"email"},
		},
		"empty": {
			fields: []string{"confirm_password", "email", "password"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := Check(tc.form)
			if tc.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *Error
			require.True(t, errors.As(err, &verr))
			got := make([]string, 0, len(verr.Fields))
			for k := range verr.Fields {
				got = append(got, k)
			}
			assert.ElementsMatch(t, tc.fields, got)
		})
	}
}

func TestCheckGenerateQuestions(t *testing.T) {
	req := model.GenerateQuestionsRequest{AssignmentID: 3, NumQuestions: 21, Difficulty: "brutal"}

	var verr *Error
	require.True(t, errors.As(Check(req), &verr))
	assert.Contains(t, verr.Fields, "num_questions")
	assert.Contains(t, verr.Fields, "difficulty")
	assert.NotContains(t, verr.Fields, "assignment_id")
}

func TestErrorMessageIsStable(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "second", "a": "first"}}
	assert.Equal(t, "validation failed: first; second", err.Error())
	assert.Equal(t, "validation failed: only", Field("x", "only").Error())
}
