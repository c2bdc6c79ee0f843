package usererrors

import (
	"net/http"

	"worksphere/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be Employee or HR",
		http.StatusBadRequest,
	)

	ErrNotRegistered = apperror.New(
		apperror.CodeForbidden,
		"Complete your registration first",
		http.StatusForbidden,
	)

	ErrSelfModification = apperror.New(
		apperror.CodeForbidden,
		"You cannot change your own role, verification, or worksheet access",
		http.StatusForbidden,
	)

	ErrProfileNotOwned = apperror.New(
		apperror.CodeForbidden,
		"You can only edit your own profile",
		http.StatusForbidden,
	)

	ErrSalaryAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only an Admin can change salary",
		http.StatusForbidden,
	)

	ErrSalaryDecrease = apperror.New(
		apperror.CodeInvalidInput,
		"Salary can only be increased",
		http.StatusBadRequest,
	)

	ErrInvalidSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Salary must not be negative",
		http.StatusBadRequest,
	)

	ErrAdminImmutable = apperror.New(
		apperror.CodeForbidden,
		"Admin accounts cannot be changed through the API",
		http.StatusForbidden,
	)

	ErrInvalidPhoto = apperror.New(
		apperror.CodeInvalidInput,
		"Photo must be an image (jpeg, png or webp) up to 5 MB",
		http.StatusBadRequest,
	)

	ErrPhotoStorageUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Photo storage is unavailable",
		http.StatusServiceUnavailable,
	)
)
