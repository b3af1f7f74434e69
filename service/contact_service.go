package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Itish41/InnovationTracker/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContactService manages the role associations of an initiative. Every
// primary change clears the previous primary of the same role in the same
// transaction.
type ContactService struct {
	store  *InitiativeService
	logger *zap.Logger
}

func NewContactService(store *InitiativeService) *ContactService {
	return &ContactService{store: store, logger: store.logger.Named("contacts")}
}

// ContactInput adds a person under a role. TypeName defaults to CONTACT.
type ContactInput struct {
	UserInput
	TypeName  string
	IsPrimary bool
}

// ContactUpdate changes an association. Nil means untouched.
type ContactUpdate struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Phone      *string
	Department *string
	Function   *string
	TypeName   *string
	IsPrimary  *bool
}

// List returns the associations of an initiative, primary first.
func (s *ContactService) List(ctx context.Context, initiativeID uint) ([]models.InitiativeUserView, error) {
	db := s.store.db.WithContext(ctx)
	if err := initiativeExists(db, initiativeID); err != nil {
		return nil, err
	}
	users, err := loadAssociations(db, []uint{initiativeID})
	if err != nil {
		return nil, err
	}
	if users[initiativeID] == nil {
		return []models.InitiativeUserView{}, nil
	}
	return users[initiativeID], nil
}

// Create links a user, deduplicated by email, to the initiative.
func (s *ContactService) Create(ctx context.Context, initiativeID uint, in ContactInput) (*models.InitiativeUserView, error) {
	typeName := in.TypeName
	if strings.TrimSpace(typeName) == "" {
		typeName = models.UserTypeContact
	}
	now := s.store.now()

	var id uint
	err := s.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockInitiative(tx, initiativeID); err != nil {
			return err
		}
		user, err := findOrCreateUser(tx, in.UserInput, now)
		if err != nil {
			return err
		}
		iu, err := assignRole(tx, initiativeID, user.ID, typeName, in.IsPrimary, now)
		if err != nil {
			return err
		}
		id = iu.ID
		return nil
	})
	if err != nil {
		s.logFailure("create contact failed", initiativeID, err)
		return nil, err
	}

	s.logger.Info("contact added",
		zap.Uint("initiative_id", initiativeID),
		zap.Uint("contact_id", id),
		zap.String("type_name", strings.ToUpper(typeName)),
		zap.Bool("is_primary", in.IsPrimary),
	)
	return s.view(ctx, id)
}

// Update edits the user fields, the role and the primary flag of an
// association belonging to initiativeID.
func (s *ContactService) Update(ctx context.Context, initiativeID, contactID uint, upd ContactUpdate) (*models.InitiativeUserView, error) {
	now := s.store.now()

	err := s.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockInitiative(tx, initiativeID); err != nil {
			return err
		}
		iu, err := findAssociation(tx, initiativeID, contactID)
		if err != nil {
			return err
		}

		userValues := map[string]interface{}{}
		setString := func(col string, v *string) {
			if v != nil {
				userValues[col] = strings.TrimSpace(*v)
			}
		}
		setString("first_name", upd.FirstName)
		setString("last_name", upd.LastName)
		setString("phone", upd.Phone)
		setString("department", upd.Department)
		setString("function", upd.Function)
		if upd.Email != nil {
			userValues["email"] = strings.ToLower(strings.TrimSpace(*upd.Email))
		}
		if len(userValues) > 0 {
			userValues["updated_at"] = now
			if err := tx.Model(&models.User{}).Where("id = ?", iu.UserID).Updates(userValues).Error; err != nil {
				return fmt.Errorf("update user %d: %w", iu.UserID, err)
			}
		}

		typeID := iu.UserTypeID
		if upd.TypeName != nil {
			ut, err := findUserType(tx, *upd.TypeName)
			if err != nil {
				return err
			}
			typeID = ut.ID
		}
		primary := iu.IsPrimary
		if upd.IsPrimary != nil {
			primary = *upd.IsPrimary
		}
		if primary {
			if err := clearPrimary(tx, initiativeID, typeID, iu.ID); err != nil {
				return err
			}
		}

		err = tx.Model(&models.InitiativeUser{}).Where("id = ?", iu.ID).Updates(map[string]interface{}{
			"user_type_id": typeID,
			"is_primary":   primary,
		}).Error
		if err != nil {
			return fmt.Errorf("update contact %d: %w", iu.ID, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("update contact failed", initiativeID, err)
		return nil, err
	}
	return s.view(ctx, contactID)
}

// Delete removes an association. The user row is kept.
func (s *ContactService) Delete(ctx context.Context, initiativeID, contactID uint) error {
	err := s.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := initiativeExists(tx, initiativeID); err != nil {
			return err
		}
		iu, err := findAssociation(tx, initiativeID, contactID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.InitiativeUser{}, iu.ID).Error; err != nil {
			return fmt.Errorf("delete contact %d: %w", iu.ID, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete contact failed", initiativeID, err)
		return err
	}
	s.logger.Info("contact removed", zap.Uint("initiative_id", initiativeID), zap.Uint("contact_id", contactID))
	return nil
}

func (s *ContactService) view(ctx context.Context, id uint) (*models.InitiativeUserView, error) {
	var iu models.InitiativeUser
	err := s.store.db.WithContext(ctx).Preload("User").Preload("UserType").First(&iu, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("load contact %d: %w", id, err)
	}
	v := iu.View()
	return &v, nil
}

func (s *ContactService) logFailure(msg string, initiativeID uint, err error) {
	if errors.Is(err, ErrInitiativeNotFound) || errors.Is(err, ErrContactNotFound) ||
		errors.Is(err, ErrContactMismatch) || errors.Is(err, ErrUnknownUserType) {
		return
	}
	s.logger.Error(msg, zap.Uint("initiative_id", initiativeID), zap.Error(err))
}

func findAssociation(tx *gorm.DB, initiativeID, contactID uint) (*models.InitiativeUser, error) {
	var iu models.InitiativeUser
	if err := tx.First(&iu, contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("load contact %d: %w", contactID, err)
	}
	if iu.InitiativeID != initiativeID {
		return nil, ErrContactMismatch
	}
	return &iu, nil
}
