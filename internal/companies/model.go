// Package companies manages client company records and the company
// self-update rule for the Empresa role.
package companies

import "time"

// Company is a client organization managed by the consulting firm.
type Company struct {
	ID               int64     `json:"id"`
	ConsultingFirmID int64     `json:"consultingFirmId"`
	Name             string    `json:"name"`
	TaxID            string    `json:"taxId"`
	ContactEmail     *string   `json:"contactEmail,omitempty"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type CreateCompanyRequest struct {
	ConsultingFirmID int64   `json:"consultingFirmId" validate:"required,gt=0"`
	Name             string  `json:"name" validate:"required,max=200"`
	TaxID            string  `json:"taxId" validate:"required,max=32"`
	ContactEmail     *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=200"`
	ContactEmail *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	IsActive     *bool   `json:"isActive,omitempty"`
}
