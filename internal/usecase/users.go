package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const welcomeEmailTimeout = 5 * time.Second

const (
	msgSelfDelete = "No puedes eliminar tu propio usuario"
	msgLastAdmin  = "No se puede eliminar el último administrador"
)

type UserUseCase struct {
	Users  UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Mailer Mailer

	FrontendURL  string
	EmailTimeout time.Duration
	log          zerolog.Logger
}

func NewUserUseCase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, mailer Mailer, frontendURL string, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{
		Users:        users,
		Hasher:       hasher,
		Tokens:       tokens,
		Mailer:       mailer,
		FrontendURL:  strings.TrimRight(frontendURL, "/"),
		EmailTimeout: welcomeEmailTimeout,
		log:          log,
	}
}

func (uc *UserUseCase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	invalid := &DomainError{Code: CodeAccessDenied, Message: "Email o contraseña incorrectos"}

	u, err := uc.Users.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, entity.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, internal("Error al iniciar sesión", err)
	}
	if err := uc.Hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, invalid
	}

	token, exp, err := uc.Tokens.Issue(u)
	if err != nil {
		return nil, internal("Error al generar el token", err)
	}
	return &LoginOutput{Token: token, ExpiresAt: exp, User: u}, nil
}

func (uc *UserUseCase) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Usuario no encontrado", "Error al buscar usuario")
	}
	return u, nil
}

func (uc *UserUseCase) List(ctx context.Context) ([]*entity.User, error) {
	list, err := uc.Users.List(ctx)
	if err != nil {
		return nil, internal("Error al listar usuarios", err)
	}
	return list, nil
}

// Create guarda el usuario y envía el email de bienvenida con un tope de espera; si
// el envío falla o tarda, el usuario queda creado igual.
func (uc *UserUseCase) Create(ctx context.Context, in CreateUserInput) (*UserResult, error) {
	if err := validationFailed(ValidateCreateUserInput(in)); err != nil {
		return nil, err
	}
	if in.Role != "" && !entity.ValidRole(in.Role) {
		return nil, validationError("Rol inválido")
	}

	hash, err := uc.Hasher.Hash(in.Password)
	if err != nil {
		return nil, internal("Error al procesar la contraseña", err)
	}
	u := entity.NewUser(strings.TrimSpace(in.Name), normalizeEmail(in.Email), hash, in.Role)
	u.HunterAccess = in.HunterAccess

	if err := uc.Users.Create(ctx, u); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, conflict("Ya existe un usuario con ese email", err)
		}
		return nil, internal("Error al crear usuario", err)
	}
	uc.log.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("👤 usuario creado")

	result := &UserResult{User: u}
	if err := uc.sendWelcome(ctx, u); err != nil {
		uc.log.Warn().Err(err).Str("user_id", u.ID).Msg("⚠️ email de bienvenida no enviado")
		result.Warnings = append(result.Warnings, WarnWelcomeEmail)
	}
	return result, nil
}

// sendWelcome corre el envío contra un timeout. Si vence, el envío sigue en segundo
// plano y su resultado sólo se registra.
func (uc *UserUseCase) sendWelcome(ctx context.Context, u *entity.User) error {
	done := make(chan error, 1)
	sendCtx := context.WithoutCancel(ctx)
	go func() {
		done <- uc.Mailer.SendWelcome(sendCtx, u.Email, u.Name, uc.FrontendURL+"/login")
	}()

	timer := time.NewTimer(uc.EmailTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		go func() {
			if err := <-done; err != nil {
				uc.log.Warn().Err(err).Str("user_id", u.ID).Msg("⚠️ email de bienvenida falló tras el timeout")
			}
		}()
		return errors.New("tiempo de espera agotado")
	}
}

func (uc *UserUseCase) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	if in.Email != nil && !isValidEmail(*in.Email) {
		return nil, validationError("El email no es válido")
	}
	if in.Role != nil && !entity.ValidRole(*in.Role) {
		return nil, validationError("Rol inválido")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, validationError("El nombre es obligatorio")
	}

	current, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Usuario no encontrado", "Error al buscar usuario")
	}
	if in.Role != nil && current.Role == entity.RoleAdmin && *in.Role != entity.RoleAdmin {
		if err := uc.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	patch := entity.Patch{}
	entity.Set(patch, "name", in.Name)
	if in.Email != nil {
		patch["email"] = normalizeEmail(*in.Email)
	}
	entity.Set(patch, "role", in.Role)
	entity.Set(patch, "hunter_access", in.HunterAccess)
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, validationError("La contraseña debe tener al menos 8 caracteres")
		}
		hash, err := uc.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, internal("Error al procesar la contraseña", err)
		}
		patch["password_hash"] = hash
	}
	if patch.Empty() {
		return nil, validationError("No hay campos para actualizar")
	}

	if err := uc.Users.Update(ctx, id, patch); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, conflict("Ya existe un usuario con ese email", err)
		}
		return nil, fromRepo(err, "Usuario no encontrado", "Error al actualizar usuario")
	}
	return uc.Get(ctx, id)
}

// Delete impide borrarse a uno mismo y borrar al último administrador.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return validationError(msgSelfDelete)
	}
	target, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Usuario no encontrado", "Error al buscar usuario")
	}
	if target.Role == entity.RoleAdmin {
		if err := uc.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := uc.Users.Delete(ctx, id); err != nil {
		return fromRepo(err, "Usuario no encontrado", "Error al eliminar usuario")
	}
	uc.log.Info().Str("user_id", id).Str("by", actorID).Msg("🗑️ usuario eliminado")
	return nil
}

func (uc *UserUseCase) ensureAnotherAdmin(ctx context.Context) error {
	admins, err := uc.Users.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return internal("Error al contar administradores", err)
	}
	if admins <= 1 {
		return validationError(msgLastAdmin)
	}
	return nil
}
