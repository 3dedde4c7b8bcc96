package domain

import (
	"errors"
	"fmt"
)

// Erros do pipeline de normalização, armazenamento e relatórios
var (
	// Erros de normalização
	ErrRowParse     = errors.New("row could not be normalized")
	ErrMissingField = errors.New("required column is missing")
	ErrEmptyExport  = errors.New("export has no header row")

	// Erros de armazenamento
	ErrNotFound = errors.New("object not found")
	ErrStorage  = errors.New("storage operation failed")

	// Erros de consulta
	ErrDataUnavailable = errors.New("dataset unavailable")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrUnknownOutlet   = errors.New("unknown outlet")
)

// MissingFieldError aborta a normalização de um arquivo inteiro
type MissingFieldError struct {
	Source string // Chave do arquivo de origem
	Field  string // Campo canônico ausente
}

func (e *MissingFieldError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrMissingField.Error(), e.Field, e.Source)
	}
	return fmt.Sprintf("%s: %s", ErrMissingField.Error(), e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// RowError descreve uma linha descartada; nunca aborta o arquivo
type RowError struct {
	Line   int
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: line %d, field %s: %s", ErrRowParse.Error(), e.Line, e.Field, e.Reason)
}

func (e *RowError) Unwrap() error {
	return ErrRowParse
}

// StorageError envolve falhas de I/O do armazenamento de objetos
type StorageError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s %s/%s: %v", ErrStorage.Error(), e.Op, e.Bucket, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, ErrStorage) sem perder o erro original
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
