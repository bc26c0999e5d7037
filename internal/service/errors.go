package service

import "github.com/Freeeeeet/booking_engine/internal/model"

// storeErr пропускает ошибки таксономии как есть, остальное
// (сбои пула, сети, SQL) заворачивает в DependencyError
func storeErr(op string, err error) error {
	if model.IsValidation(err) || model.IsAuthorization(err) || model.IsNotFound(err) ||
		model.IsConflict(err) || model.IsDependency(err) {
		return err
	}
	return &model.DependencyError{Op: op, Err: err}
}
