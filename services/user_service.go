package services

import (
	"context"
	"errors"

	"blogicum/forms"
	"blogicum/models"

	"gorm.io/gorm"
)

const msgUsernameTaken = "A user with that username already exists."

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) usernameTaken(tx *gorm.DB, username string, exclude uint) (bool, error) {
	q := tx.Model(&models.User{}).Where("username = ?", username)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserService) CreateUser(ctx context.Context, f *forms.RegistrationForm) (*models.User, error) {
	user := &models.User{
		Username: f.Username,
		Password: f.Password1,
		IsActive: true,
	}
	if err := user.HashPassword(); err != nil {
		return nil, err
	}
	if err := s.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Insert stores a user whose password is already hashed.
func (s *UserService) Insert(ctx context.Context, user *models.User) error {
	db := s.db.WithContext(ctx)

	taken, err := s.usernameTaken(db, user.Username, 0)
	if err != nil {
		return err
	}
	if taken {
		return forms.Field("username", msgUsernameTaken)
	}

	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return forms.Field("username", msgUsernameTaken)
		}
		return err
	}
	return nil
}

// Authenticate returns the active user matching the credentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateProfile applies the profile form to user; usernames stay unique.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, f *forms.ProfileForm) error {
	db := s.db.WithContext(ctx)

	taken, err := s.usernameTaken(db, f.Username, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return forms.Field("username", msgUsernameTaken)
	}

	user.Username = f.Username
	user.FirstName = f.FirstName
	user.LastName = f.LastName
	user.Email = f.Email

	err = db.Model(user).Select("Username", "FirstName", "LastName", "Email").Updates(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return forms.Field("username", msgUsernameTaken)
	}
	return err
}

// DeleteUser removes the user along with their posts and every comment that
// was written by them or left under their posts.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)

		if err := tx.Where("author_id = ? OR post_id IN (?)", id, ownPosts).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
