package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func newUserUseCase() (*UserUseCase, *MockUserRepository, *MockMailer) {
	users := new(MockUserRepository)
	mailer := new(MockMailer)
	uc := NewUserUseCase(users, fakeHasher{}, fakeIssuer{}, mailer, "https://crm.ligue.app", zerolog.Nop())
	return uc, users, mailer
}

func TestLogin(t *testing.T) {
	uc, users, _ := newUserUseCase()
	u := &entity.User{ID: "u-1", Email: "ana@ligue.app", PasswordHash: "hash:secreto123", Role: entity.RoleAdmin}
	users.On("FindByEmail", mock.Anything, "ana@ligue.app").Return(u, nil)
	users.On("FindByEmail", mock.Anything, "nadie@ligue.app").Return(nil, entity.ErrNotFound)

	out, err := uc.Login(context.Background(), LoginInput{Email: " Ana@Ligue.app ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-u-1", out.Token)
	assert.Same(t, u, out.User)

	_, err = uc.Login(context.Background(), LoginInput{Email: "ana@ligue.app", Password: "otra"})
	assert.EqualError(t, err, "Email o contraseña incorrectos")

	_, err = uc.Login(context.Background(), LoginInput{Email: "nadie@ligue.app", Password: "secreto123"})
	assert.Equal(t, CodeAccessDenied, domainCode(t, err))
}

func TestCreateUserSendsWelcome(t *testing.T) {
	uc, users, mailer := newUserUseCase()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "ana@ligue.app" && u.PasswordHash == "hash:secreto123" && u.Role == entity.RoleUser
	})).Return(nil)
	mailer.On("SendWelcome", mock.Anything, "ana@ligue.app", "Ana", "https://crm.ligue.app/login").Return(nil)

	res, err := uc.Create(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@ligue.app", Password: "secreto123"})

	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	mailer.AssertExpectations(t)
}

func TestCreateUserWelcomeTimeoutIsAWarning(t *testing.T) {
	uc, users, mailer := newUserUseCase()
	uc.EmailTimeout = 20 * time.Millisecond
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	mailer.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		After(300 * time.Millisecond).Return(nil)

	start := time.Now()
	res, err := uc.Create(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@ligue.app", Password: "secreto123"})

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.Equal(t, []string{WarnWelcomeEmail}, res.Warnings)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	uc, users, mailer := newUserUseCase()
	users.On("Create", mock.Anything, mock.Anything).Return(entity.ErrEmailAlreadyExists)

	_, err := uc.Create(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@ligue.app", Password: "secreto123"})

	assert.Equal(t, CodeConflict, domainCode(t, err))
	mailer.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	uc, users, _ := newUserUseCase()

	_, err := uc.Create(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@ligue.app", Password: "secreto123", Role: "root"})

	assert.Equal(t, CodeValidation, domainCode(t, err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteUser(t *testing.T) {
	t.Run("a sí mismo", func(t *testing.T) {
		uc, users, _ := newUserUseCase()

		err := uc.Delete(context.Background(), "u-1", "u-1")

		assert.EqualError(t, err, msgSelfDelete)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("último administrador", func(t *testing.T) {
		uc, users, _ := newUserUseCase()
		users.On("FindByID", mock.Anything, "u-2").Return(&entity.User{ID: "u-2", Role: entity.RoleAdmin}, nil)
		users.On("CountByRole", mock.Anything, entity.RoleAdmin).Return(1, nil)

		err := uc.Delete(context.Background(), "u-1", "u-2")

		assert.EqualError(t, err, msgLastAdmin)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("administrador con otros administradores", func(t *testing.T) {
		uc, users, _ := newUserUseCase()
		users.On("FindByID", mock.Anything, "u-2").Return(&entity.User{ID: "u-2", Role: entity.RoleAdmin}, nil)
		users.On("CountByRole", mock.Anything, entity.RoleAdmin).Return(2, nil)
		users.On("Delete", mock.Anything, "u-2").Return(nil)

		require.NoError(t, uc.Delete(context.Background(), "u-1", "u-2"))
	})

	t.Run("usuario normal", func(t *testing.T) {
		uc, users, _ := newUserUseCase()
		users.On("FindByID", mock.Anything, "u-3").Return(&entity.User{ID: "u-3", Role: entity.RoleUser}, nil)
		users.On("Delete", mock.Anything, "u-3").Return(nil)

		require.NoError(t, uc.Delete(context.Background(), "u-1", "u-3"))
		users.AssertNotCalled(t, "CountByRole", mock.Anything, mock.Anything)
	})
}

func TestUpdateUserCannotDemoteLastAdmin(t *testing.T) {
	uc, users, _ := newUserUseCase()
	users.On("FindByID", mock.Anything, "u-1").Return(&entity.User{ID: "u-1", Role: entity.RoleAdmin}, nil)
	users.On("CountByRole", mock.Anything, entity.RoleAdmin).Return(1, nil)
	role := entity.RoleUser

	_, err := uc.Update(context.Background(), "u-1", UpdateUserInput{Role: &role})

	assert.Equal(t, CodeValidation, domainCode(t, err))
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUserHashesNewPassword(t *testing.T) {
	uc, users, _ := newUserUseCase()
	u := &entity.User{ID: "u-1", Role: entity.RoleUser}
	users.On("FindByID", mock.Anything, "u-1").Return(u, nil)
	users.On("Update", mock.Anything, "u-1", entity.Patch{"password_hash": "hash:nuevaclave1"}).Return(nil)
	pw := "nuevaclave1"

	_, err := uc.Update(context.Background(), "u-1", UpdateUserInput{Password: &pw})

	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUpdateUserEmailTaken(t *testing.T) {
	uc, users, _ := newUserUseCase()
	users.On("FindByID", mock.Anything, "u-1").Return(&entity.User{ID: "u-1"}, nil)
	users.On("Update", mock.Anything, "u-1", mock.Anything).Return(entity.ErrEmailAlreadyExists)
	email := "otro@ligue.app"

	_, err := uc.Update(context.Background(), "u-1", UpdateUserInput{Email: &email})

	assert.Equal(t, CodeConflict, domainCode(t, err))
}
