package dtos

// DTO for operator registration
type DTOForOperatorCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone" binding:"required"`
}

// DTO for operator login
type DTOForOperatorLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
