package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidAmount     = errors.New("la cantidad del ajuste debe ser un entero positivo")
	ErrInvalidQuantity   = errors.New("la cantidad vendida debe ser un entero positivo")
	ErrDuplicateSKU      = errors.New("el SKU ya está registrado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("error de almacenamiento")
)

// InsufficientStockError reporta la cantidad disponible para que el caller pueda
// mostrar un mensaje correctivo. errors.Is(err, ErrInsufficientStock) es true.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: disponible %d, solicitado %d", ErrInsufficientStock, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// StorageError envuelve fallos del almacenamiento (conexión, timeout, conflicto de tx).
// Es transitorio desde el punto de vista del caller; nunca se reintenta automáticamente.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError construye un StorageError; devuelve nil si err es nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation indica si err es un fallo de validación de entrada (no es falla del sistema).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidQuantity)
}
