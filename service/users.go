package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Itish41/InnovationTracker/models"
	"gorm.io/gorm"
)

// UserInput describes a person to attach to an initiative.
type UserInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Function   string `json:"function"`
}

func (in UserInput) normalized() UserInput {
	return UserInput{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:      strings.TrimSpace(in.Phone),
		Department: strings.TrimSpace(in.Department),
		Function:   strings.TrimSpace(in.Function),
	}
}

// findOrCreateUser returns the user with the same email, or inserts a new one.
// Users without an email are never deduplicated.
func findOrCreateUser(tx *gorm.DB, in UserInput, now time.Time) (*models.User, error) {
	in = in.normalized()

	if in.Email != "" {
		var existing models.User
		err := tx.Where("LOWER(email) = ?", in.Email).Order("id ASC").First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup user %s: %w", in.Email, err)
		}
	}

	user := models.User{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		Department: in.Department,
		Function:   in.Function,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

func findUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

func findUserType(tx *gorm.DB, name string) (*models.UserType, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if !models.ValidUserType(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUserType, name)
	}
	var ut models.UserType
	if err := tx.Where("type_name = ?", name).First(&ut).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s is not seeded", ErrUnknownUserType, name)
		}
		return nil, fmt.Errorf("load user type %s: %w", name, err)
	}
	return &ut, nil
}

// clearPrimary unsets the primary flag on every association of the
// (initiative, role) pair except keep.
func clearPrimary(tx *gorm.DB, initiativeID, userTypeID, keep uint) error {
	q := tx.Model(&models.InitiativeUser{}).
		Where("initiative_id = ? AND user_type_id = ? AND is_primary = ?", initiativeID, userTypeID, true)
	if keep != 0 {
		q = q.Where("id <> ?", keep)
	}
	if err := q.Update("is_primary", false).Error; err != nil {
		return fmt.Errorf("clear primary for initiative %d: %w", initiativeID, err)
	}
	return nil
}

// assignRole inserts a new association. Must run inside a transaction when
// primary is set so the clear and the insert commit together.
func assignRole(tx *gorm.DB, initiativeID, userID uint, typeName string, primary bool, now time.Time) (*models.InitiativeUser, error) {
	ut, err := findUserType(tx, typeName)
	if err != nil {
		return nil, err
	}
	if primary {
		if err := clearPrimary(tx, initiativeID, ut.ID, 0); err != nil {
			return nil, err
		}
	}

	iu := models.InitiativeUser{
		InitiativeID: initiativeID,
		UserID:       userID,
		UserTypeID:   ut.ID,
		IsPrimary:    primary,
		AssignedAt:   now,
	}
	if err := tx.Create(&iu).Error; err != nil {
		return nil, fmt.Errorf("assign %s to initiative %d: %w", ut.TypeName, initiativeID, err)
	}
	iu.UserType = ut
	return &iu, nil
}

// loadAssociations returns the role associations of the given initiatives,
// primary first then by assignment time.
func loadAssociations(tx *gorm.DB, initiativeIDs []uint) (map[uint][]models.InitiativeUserView, error) {
	out := make(map[uint][]models.InitiativeUserView, len(initiativeIDs))
	if len(initiativeIDs) == 0 {
		return out, nil
	}

	var rows []models.InitiativeUser
	err := tx.Preload("User").Preload("UserType").
		Where("initiative_id IN ?", initiativeIDs).
		Order("is_primary DESC").
		Order("assigned_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load associations: %w", err)
	}

	for _, row := range rows {
		out[row.InitiativeID] = append(out[row.InitiativeID], row.View())
	}
	return out, nil
}
