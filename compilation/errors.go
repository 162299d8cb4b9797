package compilation

import "errors"

var (
	ErrInvalidExpression     = errors.New("invalid schema expression")
	ErrInvalidTrait          = errors.New("invalid trait")
	ErrUnknownTrait          = errors.New("unknown trait")
	ErrDuplicateOperation    = errors.New("duplicate operation id")
	ErrUnresolvedRef         = errors.New("unresolved schema reference")
	ErrUnknownSecurityScheme = errors.New("unknown security scheme")
)
