package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError ошибка валидации входных данных, исправляется вызывающей стороной
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// AuthorizationError ошибка авторизации: неправильная роль или чужой тренер
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed: %s", e.Reason)
}

// NotFoundError слот не существует или помечен удалённым
type NotFoundError struct {
	SlotID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("slot %s not found", e.SlotID)
}

// ConflictError состояние слота изменилось между чтением и записью.
// Единственная ошибка, которую имеет смысл повторять после обновления данных.
type ConflictError struct {
	SlotID uuid.UUID
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %s conflict: %s", e.SlotID, e.Reason)
}

// DependencyError сбой хранилища или записи занятия, транзакция откачена целиком
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency failed: %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// IsValidation проверяет, является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAuthorization проверяет, является ли ошибка ошибкой авторизации
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsNotFound проверяет, является ли ошибка "слот не найден"
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict проверяет, является ли ошибка конфликтом состояния
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsDependency проверяет, является ли ошибка сбоем зависимости
func IsDependency(err error) bool {
	var target *DependencyError
	return errors.As(err, &target)
}
