package dashboarderrors

import (
	"net/http"

	"worksphere/internal/shared/apperror"
)

var (
	ErrAccessDenied = apperror.New(
		apperror.CodeForbidden,
		"Your role has no dashboard",
		http.StatusForbidden,
	)

	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
)
