package Models

import (
	"gorm.io/gorm"
)

// Permission levels used by the Verify middleware. Staff can fill in
// checklists for their delis, managers additionally author templates,
// manage accounts and review history.
const (
	PermissionStaff   = 1
	PermissionManager = 4
)

type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`

	// Delis the user works at
	Delis []Deli `json:"delis" gorm:"many2many:user_delis;"`
}

// Deli is one delicatessen unit. All checklists are scoped to a deli.
type Deli struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`

	Users []User `json:"-" gorm:"many2many:user_delis;"`
}

// Join request statuses
const (
	JoinRequestPending  = "pending"
	JoinRequestApproved = "approved"
	JoinRequestRejected = "rejected"
)

// DeliJoinRequest is a staff member's request to be added to a deli,
// reviewed by a manager.
type DeliJoinRequest struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;not null"`
	DeliID uint   `json:"deli_id" gorm:"index;not null"`
	Status string `json:"status" gorm:"default:pending"`

	User User `json:"user" gorm:"foreignKey:UserID"`
	Deli Deli `json:"deli" gorm:"foreignKey:DeliID"`
}

func (u *User) IsManager() bool {
	return u.Permission >= PermissionManager
}
