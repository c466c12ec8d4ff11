package employees

import "time"

type CreateEmployeeRequest struct {
	CompanyID    int64      `json:"companyId" validate:"required,gt=0"`
	DepartmentID *int64     `json:"departmentId,omitempty" validate:"omitempty,gt=0"`
	Name         string     `json:"name" validate:"required,max=200"`
	Email        string     `json:"email" validate:"required,email"`
	Position     *string    `json:"position,omitempty" validate:"omitempty,max=100"`
	HiredAt      *time.Time `json:"hiredAt,omitempty"`
}

type UpdateEmployeeRequest struct {
	DepartmentID *int64  `json:"departmentId,omitempty" validate:"omitempty,gt=0"`
	Name         *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Position     *string `json:"position,omitempty" validate:"omitempty,max=100"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

type ListEmployeesRequest struct {
	CompanyID    int64
	DepartmentID *int64
	IsActive     *bool
	Limit        int
	Offset       int
}
