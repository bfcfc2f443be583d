package errors

import "errors"

var (
	ErrNothingSelected = errors.New("no entity selected")

	ErrUnsupportedField = errors.New("field is not editable for the selected entity")

	ErrSaveInProgress = errors.New("save already in progress")
)
