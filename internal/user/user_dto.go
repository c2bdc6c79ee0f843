package user

import "github.com/shopspring/decimal"

// RegisterUserRequest completes the profile of a freshly authenticated
// identity. Admin is never self-assignable.
type RegisterUserRequest struct {
	Name          string           `json:"name" binding:"required,max=255"`
	Role          string           `json:"role" binding:"required,oneof=Employee HR"`
	Designation   string           `json:"designation" binding:"max=100"`
	BankAccountNo string           `json:"bank_account_no" binding:"max=64"`
	Salary        *decimal.Decimal `json:"salary"`
	PhotoURL      string           `json:"photoURL" binding:"omitempty,url"`
}

// UpdateProfileRequest carries the fields a user may edit on their own
// profile. Salary is honoured for Admin callers only.
type UpdateProfileRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=255"`
	Designation   *string          `json:"designation" binding:"omitempty,max=100"`
	BankAccountNo *string          `json:"bank_account_no" binding:"omitempty,max=64"`
	PhotoURL      *string          `json:"photoURL" binding:"omitempty,url"`
	Salary        *decimal.Decimal `json:"salary"`
}

type SetVerifiedRequest struct {
	IsVerified *bool `json:"isVerified" binding:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Employee HR"`
}

type SetWorksheetStatusRequest struct {
	IsActiveWorkSheet *bool `json:"isActiveWorkSheet" binding:"required"`
}

type GetUsersFilter struct {
	Email    string
	UID      string
	Role     string
	Verified *bool
}

func (f GetUsersFilter) IsEmpty() bool {
	return f.Email == "" && f.UID == "" && f.Role == "" && f.Verified == nil
}

type UserResponse struct {
	ID                string          `json:"id"`
	UID               string          `json:"uid"`
	Email             string          `json:"email"`
	Name              string          `json:"name"`
	Role              string          `json:"role"`
	Designation       string          `json:"designation"`
	BankAccountNo     string          `json:"bank_account_no"`
	Salary            decimal.Decimal `json:"salary"`
	PhotoURL          string          `json:"photoURL"`
	IsVerified        bool            `json:"isVerified"`
	IsActiveWorksheet bool            `json:"isActiveWorkSheet"`
	CreatedAt         string          `json:"created_at"`
}
