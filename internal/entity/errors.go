package entity

import "errors"

// Errores de persistencia. Los repositorios los devuelven envueltos con %w y los
// casos de uso los traducen a mensajes para el usuario.
var (
	ErrNotFound                  = errors.New("registro no encontrado")
	ErrEmailAlreadyExists        = errors.New("email ya registrado")
	ErrProspectAlreadyProcessed  = errors.New("prospecto ya procesado")
	ErrProposalAlreadyAccepted   = errors.New("propuesta ya aceptada")
	ErrInvoiceAlreadyExists      = errors.New("factura ya existe para la propuesta")
	ErrReferralCodeAlreadyExists = errors.New("código de referido duplicado")
	ErrQuotaExceeded             = errors.New("cuota diaria agotada")
)
