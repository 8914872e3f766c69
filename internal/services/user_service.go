package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// UserService handles profile management and the admin user console.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetProfile returns the user behind an authenticated request.
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile lets a user change their own name, email and password.
// Empty fields are left unchanged; a new password is re-hashed.
func (s *UserService) UpdateProfile(userID, name, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetAllUsers returns every user. Admin gating happens at the route.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// GetUserByID returns one user for the admin console.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateUser lets an admin change a user's name, email and admin flag.
func (s *UserService) UpdateUser(id, name, email string, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	user.IsAdmin = isAdmin

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user account. Admin accounts cannot be deleted.
func (s *UserService) DeleteUser(id string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return fmt.Errorf("cannot delete admin user %s: %w", id, apperrors.ErrConflict)
	}
	return s.userRepo.Delete(id)
}
