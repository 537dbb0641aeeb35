package service

import (
	"errors"

	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"
	"github.com/AliOraei78/MusicLibrarySystem/internal/utils/errcode"
	"github.com/AliOraei78/MusicLibrarySystem/internal/utils/errwrap"
)

// translateError maps data-access failures onto the errcode sentinels the HTTP layer knows.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var (
		validationErr *repository.ValidationError
		connErr       *repository.ConnectionError
		configErr     *repository.ConfigurationError
	)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errcode.ErrAlbumNotFound
	case errors.Is(err, repository.ErrMultipleRows):
		return errcode.ErrAlbumAmbiguous
	case repository.IsConstraint(err, repository.ConstraintUnique):
		return errcode.ErrAlbumAlreadyExists
	case repository.IsConstraint(err, repository.ConstraintForeignKey):
		return errcode.ErrInvalidAlbumReference
	case repository.IsConstraint(err, repository.ConstraintCheck), repository.IsConstraint(err, repository.ConstraintNotNull):
		return errwrap.WrapError(errcode.ErrInvalidInput, "value rejected by a storage constraint")
	case repository.IsTransactionFailure(err):
		return errcode.ErrDatabaseTransaction
	case errors.As(err, &validationErr):
		return errwrap.WrapError(errcode.ErrInvalidInput, validationErr.Error())
	case errors.As(err, &connErr):
		return errcode.ErrDatabaseUnavailable
	case errors.As(err, &configErr):
		return errcode.ErrSessionUnavailable
	default:
		return errcode.ErrDatabaseError
	}
}
