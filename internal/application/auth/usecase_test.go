package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Manufactura-api/pkg/jwt"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func newFixture() (*auth.UseCase, *memory.Store) {
	store := memory.NewStore()
	uc := auth.NewUseCase(memory.NewUserRepository(store), auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: 60,
		Issuer:     "manufactura-api-test",
	})
	return uc, store
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_HasheaPasswordYPersiste(t *testing.T) {
	uc, store := newFixture()

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "bodega@acme.com",
		Password: "secreto123",
		Name:     "Operario Bodega",
		Role:     entity.RoleBodega,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBodega, resp.Role)
	assert.Equal(t, "active", resp.Status)

	saved := store.Users[resp.ID]
	assert.NotEqual(t, "secreto123", saved.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secreto123")))
}

func TestRegisterUser_RolPorDefectoEsBodega(t *testing.T) {
	uc, _ := newFixture()

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "nuevo@acme.com",
		Password: "secreto123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBodega, resp.Role)
}

func TestRegisterUser_RolDesconocidoRechazado(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "nuevo@acme.com",
		Password: "secreto123",
		Role:     "superadmin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "dup@acme.com", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "dup@acme.com", Password: "otro456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_DevuelveTokenConClaims(t *testing.T) {
	uc, _ := newFixture()
	reg, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "admin@acme.com",
		Password: "secreto123",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "admin@acme.com", Password: "secreto123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.ID, resp.User.ID)

	userID, role, err := pkgjwt.Parse(testJWTSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "user@acme.com", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "user@acme.com", Password: "equivocado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@acme.com", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivoBloqueado(t *testing.T) {
	uc, store := newFixture()
	reg, err := uc.RegisterUser(dto.RegisterRequest{Email: "ex@acme.com", Password: "secreto123"})
	require.NoError(t, err)

	user := store.Users[reg.ID]
	user.Status = "disabled"
	store.Users[reg.ID] = user

	_, err = uc.Login(dto.LoginRequest{Email: "ex@acme.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
