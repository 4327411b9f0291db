// services/account_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"unihaven-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService registers students and specialists. Passwords are
// bcrypt-hashed before they touch the database.
type AccountService struct {
	DB *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

// RegisterInput is shared by both account kinds.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Contact  string `json:"contact"`
	CampusID *uint  `json:"campus_id"`
}

func (s *AccountService) validate(in RegisterInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidValue)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("email %q is invalid: %w", in.Email, ErrInvalidValue)
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("password too short: %w", ErrInvalidValue)
	}
	if in.CampusID != nil {
		var campus models.Campus
		if err := s.DB.First(&campus, *in.CampusID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("campus %d: %w", *in.CampusID, ErrNotFound)
			}
			return fmt.Errorf("db error checking campus: %w", err)
		}
	}
	return nil
}

func (s *AccountService) RegisterStudent(in RegisterInput) (*models.Student, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hash),
		Contact:  strings.TrimSpace(in.Contact),
		CampusID: in.CampusID,
	}
	if err := s.DB.Create(student).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("email %s already registered: %w", student.Email, ErrInvalidValue)
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return student, nil
}

func (s *AccountService) RegisterSpecialist(in RegisterInput) (*models.Specialist, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	specialist := &models.Specialist{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hash),
		Contact:  strings.TrimSpace(in.Contact),
		CampusID: in.CampusID,
	}
	if err := s.DB.Create(specialist).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("email %s already registered: %w", specialist.Email, ErrInvalidValue)
		}
		return nil, fmt.Errorf("failed to create specialist: %w", err)
	}
	return specialist, nil
}
