package employees

import "time"

// Employee is a staff record inside a company.
type Employee struct {
	ID           int64      `json:"id"`
	CompanyID    int64      `json:"companyId"`
	DepartmentID *int64     `json:"departmentId,omitempty"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Position     *string    `json:"position,omitempty"`
	HiredAt      *time.Time `json:"hiredAt,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
