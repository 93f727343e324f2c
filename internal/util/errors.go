package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("Email is already in use.")
	ErrInvalidCredentials = errors.New("Invalid credentials.")
	ErrAccountDisabled    = errors.New("User account is disabled.")
	ErrInvalidRefresh     = errors.New("Refresh token is invalid or expired.")

	ErrQuizNotFound     = errors.New("No Quiz matches the given query.")
	ErrNotAllowed       = errors.New("Not allowed")
	ErrEmptyUserIDs     = errors.New("user_ids cannot be empty")
	ErrNotMember        = errors.New("You are not a member of this quiz.")
	ErrQuizNotOpen      = errors.New("Quiz is not open for submissions.")
	ErrQuestionNotFound = errors.New("Question not found in this quiz.")
	ErrOptionNotFound   = errors.New("Option not found for this question.")
	ErrAlreadyAnswered  = errors.New("You have already answered this question.")
)
