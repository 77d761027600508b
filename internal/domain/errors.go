package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrCycleDetected      = errors.New("la receta introduce un ciclo")
	ErrReconciliation     = errors.New("cantidades del recibo inconsistentes")
)

// StockShortage describe el faltante de un insumo concreto.
type StockShortage struct {
	ItemID    string
	Code      string
	Required  decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

// InsufficientStockError agrupa los insumos cortos de una operación.
// Compatible con errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	codes := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		id := s.Code
		if id == "" {
			id = s.ItemID
		}
		codes = append(codes, fmt.Sprintf("%s (faltan %s)", id, s.Shortfall.String()))
	}
	return "stock insuficiente: " + strings.Join(codes, ", ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// CycleDetectedError lleva la ruta producto→componente que cierra el ciclo.
// Compatible con errors.Is(err, ErrCycleDetected).
type CycleDetectedError struct {
	Path []string
}

func (e *CycleDetectedError) Error() string {
	return "la receta introduce un ciclo: " + strings.Join(e.Path, " -> ")
}

func (e *CycleDetectedError) Is(target error) bool {
	return target == ErrCycleDetected
}

// InvalidStateTransitionError indica un cambio de estado no permitido para un lote.
// Compatible con errors.Is(err, ErrInvalidTransition).
type InvalidStateTransitionError struct {
	BatchID string
	From    string
	To      string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("lote %s: transición %s -> %s no permitida", e.BatchID, e.From, e.To)
}

func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
