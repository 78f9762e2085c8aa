package middleware

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
)

// ValidateInterceptor rejects requests whose message fails its validate tags.
func ValidateInterceptor() connect.UnaryInterceptorFunc {
	v := validator.New(validator.WithRequiredStructEnabled())
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if err := v.StructCtx(ctx, req.Any()); err != nil {
				var invalid *validator.InvalidValidationError
				if errors.As(err, &invalid) {
					return nil, connect.NewError(connect.CodeInternal, err)
				}
				return nil, connect.NewError(connect.CodeInvalidArgument, err)
			}
			return next(ctx, req)
		}
	}
}
