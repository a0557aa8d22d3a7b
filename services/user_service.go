package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bnb-backend/models"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user_not_found")
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Register creates the user and then runs OnUserCreated for the profile.
func (s *UserService) Register(username, email, password, fullName string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		FullName: fullName,
	}
	if err := s.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.OnUserCreated(user); err != nil {
		return nil, err
	}
	return user, nil
}

// OnUserCreated creates the blank profile for a freshly created user. It is
// invoked explicitly by the registration flow, not by a save hook, so its
// ordering and failure handling stay visible at the call site.
func (s *UserService) OnUserCreated(user *models.User) error {
	profile := &models.UserProfile{UserID: user.ID}
	if err := s.DB.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	user.Profile = profile
	return nil
}

// Authenticate accepts username or email as the identifier.
func (s *UserService) Authenticate(identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.DB.
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &user, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName string
	Phone    string
	Whatsapp string
	Bio      string
	IsHost   *bool
}

func (s *UserService) UpdateProfile(userID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if upd.FullName != "" {
		if err := s.DB.Model(user).Update("full_name", upd.FullName).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	// Absent fields are left alone, matching the full_name handling above.
	updates := map[string]interface{}{}
	if upd.Phone != "" {
		updates["phone"] = upd.Phone
	}
	if upd.Whatsapp != "" {
		updates["whatsapp"] = upd.Whatsapp
	}
	if upd.Bio != "" {
		updates["bio"] = upd.Bio
	}
	if upd.IsHost != nil {
		updates["is_host"] = *upd.IsHost
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&models.UserProfile{}).
			Where("user_id = ?", userID).
			Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.GetByID(userID)
}

// Delete soft-deletes the account and its profile; the user's listings stay
// behind their submitted_by reference.
func (s *UserService) Delete(userID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserProfile{}).Error; err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
