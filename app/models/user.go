package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleOrganizationAdmin  = "organization_admin"
	RoleOrganizationEditor = "organization_editor"
	RoleOrganizationViewer = "organization_viewer"
	RoleIndividualUser     = "individual_user"
)

type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UUID        string     `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	Name        string     `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email       string     `gorm:"type:varchar(200);uniqueIndex;not null" json:"email" validate:"required,email,min=5,max=200"`
	Password    string     `gorm:"type:text;not null" json:"-" validate:"required,min=8"`
	Role        string     `gorm:"type:varchar(50);not null;default:'individual_user'" json:"role" validate:"oneof=organization_admin organization_editor organization_viewer individual_user"`
	LastLoginAt *time.Time `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Memberships []OrganizationUser `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.New().String()
	}
	return nil
}

// CreateUser builds a new user with a hashed password. The plaintext is
// validated for length before hashing and never retained.
func CreateUser(name, email, password string) (*User, error) {
	u := &User{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     RoleIndividualUser,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.Password = pw

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}
