package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const defaultCommissionRate = 10

// intentos ante colisión del código de referido
const referralAttempts = 3

type CommercialUseCase struct {
	Commercials CommercialRepository
	Hasher      PasswordHasher
	Documents   DocumentRenderer

	FrontendURL string
	log         zerolog.Logger
}

func NewCommercialUseCase(commercials CommercialRepository, hasher PasswordHasher, documents DocumentRenderer, frontendURL string, log zerolog.Logger) *CommercialUseCase {
	return &CommercialUseCase{
		Commercials: commercials,
		Hasher:      hasher,
		Documents:   documents,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// ReferralURL es la landing con el código ya cargado.
func (uc *CommercialUseCase) ReferralURL(code string) string {
	return uc.FrontendURL + "/contacto?ref=" + code
}

// Create da de alta el usuario (rol commercial) y su perfil en una transacción.
func (uc *CommercialUseCase) Create(ctx context.Context, in CreateCommercialInput) (*entity.Commercial, error) {
	errs := ValidateCreateUserInput(CreateUserInput{Name: in.Name, Email: in.Email, Password: in.Password})
	if in.CommissionRate < 0 || in.CommissionRate > 100 {
		errs = append(errs, ValidationError{"commission_rate", "La comisión debe estar entre 0 y 100"})
	}
	if err := validationFailed(errs); err != nil {
		return nil, err
	}

	hash, err := uc.Hasher.Hash(in.Password)
	if err != nil {
		return nil, internal("Error al procesar la contraseña", err)
	}
	rate := in.CommissionRate
	if rate == 0 {
		rate = defaultCommissionRate
	}

	for attempt := 1; ; attempt++ {
		u := entity.NewUser(strings.TrimSpace(in.Name), normalizeEmail(in.Email), hash, entity.RoleCommercial)
		c, err := entity.NewCommercial(u.ID, in.Phone, rate)
		if err != nil {
			return nil, internal("Error al generar el código de referido", err)
		}
		png, err := uc.Documents.QRCode(uc.ReferralURL(c.ReferralCode))
		if err != nil {
			return nil, internal("Error al generar el QR", err)
		}
		c.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

		err = uc.Commercials.CreateWithUser(ctx, u, c)
		switch {
		case err == nil:
			c.Name, c.Email = u.Name, u.Email
			uc.log.Info().Str("commercial_id", c.ID).Str("code", c.ReferralCode).Msg("🤝 comercial creado")
			return c, nil
		case errors.Is(err, entity.ErrEmailAlreadyExists):
			return nil, conflict("Ya existe un usuario con ese email", err)
		case errors.Is(err, entity.ErrReferralCodeAlreadyExists) && attempt < referralAttempts:
			continue
		default:
			return nil, internal("Error al crear comercial", err)
		}
	}
}

func (uc *CommercialUseCase) List(ctx context.Context) ([]*entity.Commercial, error) {
	list, err := uc.Commercials.List(ctx)
	if err != nil {
		return nil, internal("Error al listar comerciales", err)
	}
	return list, nil
}

func (uc *CommercialUseCase) Get(ctx context.Context, id string) (*entity.Commercial, error) {
	c, err := uc.Commercials.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Comercial no encontrado", "Error al buscar comercial")
	}
	return c, nil
}

// Me devuelve el perfil del comercial autenticado.
func (uc *CommercialUseCase) Me(ctx context.Context, userID string) (*entity.Commercial, error) {
	c, err := uc.Commercials.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "Perfil de comercial no encontrado", "Error al buscar comercial")
	}
	return c, nil
}

func (uc *CommercialUseCase) Update(ctx context.Context, id string, in UpdateCommercialInput) (*entity.Commercial, error) {
	if in.CommissionRate != nil && (*in.CommissionRate < 0 || *in.CommissionRate > 100) {
		return nil, validationError("La comisión debe estar entre 0 y 100")
	}
	patch := entity.Patch{}
	entity.Set(patch, "phone", in.Phone)
	entity.Set(patch, "commission_rate", in.CommissionRate)
	entity.Set(patch, "active", in.Active)
	if patch.Empty() {
		return nil, validationError("No hay campos para actualizar")
	}
	if err := uc.Commercials.Update(ctx, id, patch); err != nil {
		return nil, fromRepo(err, "Comercial no encontrado", "Error al actualizar comercial")
	}
	return uc.Get(ctx, id)
}

func (uc *CommercialUseCase) Stats(ctx context.Context, id string) (*entity.CommercialStats, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}
	s, err := uc.Commercials.Stats(ctx, id)
	if err != nil {
		return nil, internal("Error al leer estadísticas", err)
	}
	return s, nil
}

// QR regenera el PNG del enlace de referido.
func (uc *CommercialUseCase) QR(ctx context.Context, id string) ([]byte, error) {
	c, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := uc.Documents.QRCode(uc.ReferralURL(c.ReferralCode))
	if err != nil {
		return nil, internal("Error al generar el QR", err)
	}
	return png, nil
}

func (uc *CommercialUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Commercials.DeleteWithUser(ctx, id); err != nil {
		return fromRepo(err, "Comercial no encontrado", "Error al eliminar comercial")
	}
	return nil
}
