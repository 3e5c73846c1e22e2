package usecases

import (
	"errors"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
)

// asValidation turns field-level entity errors into 400 responses.
func asValidation(err error) error {
	var fe *entities.FieldError
	if errors.As(err, &fe) {
		return domainerrors.Validation(fe.Error())
	}
	return err
}
