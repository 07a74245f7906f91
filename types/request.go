package types

import (
	"strings"
	"unicode/utf8"
)

// MaxQuestionLength caps questions at the input surface, counted in
// characters, not bytes.
const MaxQuestionLength = 200

type AskRequest struct {
	Question string `json:"question"`
}

// ValidateQuestion applies the input limits shared by every ask surface.
func ValidateQuestion(question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return NewError(ErrValidation, "Please enter a question.")
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return NewError(ErrValidation, "Question exceeds 200 characters.")
	}
	return nil
}
