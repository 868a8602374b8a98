package usecase

import (
	"net/mail"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// validationFailed junta los errores de campo en un único VALIDATION_ERROR.
func validationFailed(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return &DomainError{Code: CodeValidation, Message: strings.Join(msgs, "; ")}
}

func ValidateCreateLeadInput(in CreateLeadInput) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{"name", "El nombre es obligatorio"})
	} else if len(in.Name) > 200 {
		errs = append(errs, ValidationError{"name", "El nombre no puede superar 200 caracteres"})
	}
	if in.Email != "" && !isValidEmail(in.Email) {
		errs = append(errs, ValidationError{"email", "El email no es válido"})
	}
	if in.Phone != "" && !isValidPhoneNumber(in.Phone) {
		errs = append(errs, ValidationError{"phone", "El teléfono no es válido"})
	}
	return errs
}

func ValidateCaptureLeadInput(in CaptureLeadInput) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{"name", "El nombre es obligatorio"})
	}
	if strings.TrimSpace(in.Email) == "" && strings.TrimSpace(in.Phone) == "" {
		errs = append(errs, ValidationError{"email", "Indica un email o un teléfono"})
	}
	if in.Email != "" && !isValidEmail(in.Email) {
		errs = append(errs, ValidationError{"email", "El email no es válido"})
	}
	if in.Phone != "" && !isValidPhoneNumber(in.Phone) {
		errs = append(errs, ValidationError{"phone", "El teléfono no es válido"})
	}
	return errs
}

func ValidateCreateProposalInput(in CreateProposalInput) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(in.LeadID) == "" {
		errs = append(errs, ValidationError{"lead_id", "El lead es obligatorio"})
	}
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, ValidationError{"title", "El título es obligatorio"})
	}
	if in.TotalPrice < 0 {
		errs = append(errs, ValidationError{"total_price", "El total no puede ser negativo"})
	}
	for _, it := range in.Items {
		if it.Quantity < 0 || it.UnitPrice < 0 {
			errs = append(errs, ValidationError{"items", "Los ítems no pueden tener valores negativos"})
			break
		}
	}
	return errs
}

func ValidateCreateUserInput(in CreateUserInput) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{"name", "El nombre es obligatorio"})
	}
	if !isValidEmail(in.Email) {
		errs = append(errs, ValidationError{"email", "El email no es válido"})
	}
	if len(in.Password) < minPasswordLength {
		errs = append(errs, ValidationError{"password", "La contraseña debe tener al menos 8 caracteres"})
	}
	return errs
}

const minPasswordLength = 8

var nonDigits = regexp.MustCompile(`\D`)

func isValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// isValidPhoneNumber acepta números con prefijo internacional: entre 7 y 15 dígitos.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
