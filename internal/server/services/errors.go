package services

import (
	"net/http"

	"github.com/dmitrijs2005/useraccounts/internal/common"
)

// Client-facing errors. Each unwraps to a common sentinel.
var (
	ErrEmailTaken = common.NewStatusError(common.ErrorAlreadyExists,
		"This email address is already used", http.StatusConflict)

	// ErrUserNotFound is returned by update and deactivate for missing and
	// inactive users alike. Earlier releases reported it as a conflict; the
	// 404 status is kept.
	ErrUserNotFound = common.NewStatusError(common.ErrorNotFound,
		"The user you are trying to update does not exist", http.StatusNotFound)

	ErrNoSuchUser = common.NewStatusError(common.ErrorNotFound,
		"User does not exist", http.StatusNotFound)

	// ErrInvalidCredentials is deliberately the same for an unknown email
	// and a wrong password.
	ErrInvalidCredentials = common.NewStatusError(common.ErrorInvalidCredentials,
		"The email or the password is incorrect", http.StatusBadRequest)

	ErrSessionNotFound = common.NewStatusError(common.ErrorNotFound,
		"User not found", http.StatusBadRequest)

	ErrNegativeOffset = common.NewStatusError(common.ErrorValidation,
		"offset must not be negative", http.StatusBadRequest)
)
