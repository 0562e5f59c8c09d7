package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func (f *fakeUserRepo) Create(user *models.User) error        { return nil }
func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) { return nil, gorm.ErrRecordNotFound }
func (f *fakeUserRepo) Update(user *models.User) error        { return nil }
func (f *fakeUserRepo) Delete(id uint) error                  { return nil }

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := models.HashPassword(password)
	require.NoError(t, err)
	return &models.User{ID: 1, Email: email, Password: hash}
}

func TestVerify_Success(t *testing.T) {
	user := testUser(t, "a@example.com", "correct horse")
	v := NewVerifier(&fakeUserRepo{byEmail: map[string]*models.User{user.Email: user}})

	got, err := v.Verify("a@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestVerify_WrongPassword(t *testing.T) {
	user := testUser(t, "a@example.com", "correct horse")
	v := NewVerifier(&fakeUserRepo{byEmail: map[string]*models.User{user.Email: user}})

	_, err := v.Verify("a@example.com", "battery staple")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestVerify_UnknownEmail(t *testing.T) {
	v := NewVerifier(&fakeUserRepo{byEmail: map[string]*models.User{}})

	_, err := v.Verify("nobody@example.com", "whatever")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	// Unknown email and wrong password are indistinguishable to the caller.
	user := testUser(t, "a@example.com", "correct horse")
	v2 := NewVerifier(&fakeUserRepo{byEmail: map[string]*models.User{user.Email: user}})
	_, err2 := v2.Verify("a@example.com", "wrong")
	assert.Equal(t, err2.Error(), err.Error())
}
