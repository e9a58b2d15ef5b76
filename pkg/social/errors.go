package social

import "errors"

var (
	// ErrUsernameTaken is returned when registering or renaming to a
	// username that already resolves to another uid.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrSelfFollow is returned when a user tries to follow themself.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrSelfMessage is returned when a user tries to message themself.
	ErrSelfMessage = errors.New("cannot message yourself")
)
