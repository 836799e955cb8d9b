package model

// Staff role constants
const (
	StaffRoleAdmin = "admin"
	StaffRoleStaff = "staff"
)

// Staff status constants
const (
	StaffStatusActive   = "active"
	StaffStatusInactive = "inactive"
)

// Staff represents a clinic staff member. Doctors are staff rows referenced by
// appointments through doctor_id.
type Staff struct {
	Base
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	Password     string `db:"-" json:"password,omitempty"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
	Specialty    string `db:"specialty" json:"specialty,omitempty"`
	Department   string `db:"department" json:"department,omitempty"`
	Phone        string `db:"phone" json:"phone,omitempty"`
	OnDuty       bool   `db:"on_duty" json:"on_duty"`
	Status       string `db:"status" json:"status"`
}

type CreateStaffRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Role       string `json:"role" binding:"required,oneof=admin staff"`
	Specialty  string `json:"specialty" binding:"max=100"`
	Department string `json:"department" binding:"max=100"`
	Phone      string `json:"phone" binding:"max=30"`
}

type UpdateStaffRequest struct {
	Name       *string `json:"name"`
	Specialty  *string `json:"specialty"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type StaffFilters struct {
	Role       string
	Department string
	Status     string
}
