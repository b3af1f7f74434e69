package models

// Role tags a user can hold on an initiative.
const (
	UserTypeSubmitter     = "SUBMITTER"
	UserTypeBusinessOwner = "BUSINESS_OWNER"
	UserTypeITOwner       = "IT_OWNER"
	UserTypeContact       = "CONTACT"
	UserTypeReviewer      = "REVIEWER"
)

// UserType is a row of the fixed role lookup table.
type UserType struct {
	// ID is the numeric primary key referenced by initiative_users.
	ID uint `gorm:"primaryKey" json:"id"`

	// TypeName is one of the role tags above.
	TypeName string `gorm:"type:varchar(50);uniqueIndex;not null" json:"type_name"`

	// Description is shown next to the role in the UI.
	Description string `json:"description"`
}

func (UserType) TableName() string { return "user_types" }

// DefaultUserTypes is the seed content of user_types, in display order.
func DefaultUserTypes() []UserType {
	return []UserType{
		{TypeName: UserTypeSubmitter, Description: "Person who submitted the initiative"},
		{TypeName: UserTypeBusinessOwner, Description: "Accountable owner on the business side"},
		{TypeName: UserTypeITOwner, Description: "Accountable owner on the IT side"},
		{TypeName: UserTypeContact, Description: "Point of contact"},
		{TypeName: UserTypeReviewer, Description: "Reviews the initiative at stage gates"},
	}
}

// ValidUserType reports whether name is one of the fixed role tags.
func ValidUserType(name string) bool {
	for _, t := range DefaultUserTypes() {
		if t.TypeName == name {
			return true
		}
	}
	return false
}
