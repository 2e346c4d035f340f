package validation

import (
	"context"

	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// Func adapts a function returning parsed data, issues and an unexpected
// error. Any issue makes the result invalid.
func Func[T any](fn func(ctx context.Context, values submission.FieldValues) (T, []submission.Issue, error)) submission.Validator[T] {
	return submission.ValidatorFunc[T](func(ctx context.Context, values submission.FieldValues) (submission.Validation[T], error) {
		data, issues, err := fn(ctx, values)
		if err != nil {
			return submission.Validation[T]{}, err
		}
		if len(issues) > 0 {
			return submission.Invalid[T](issues...), nil
		}
		return submission.Valid(data), nil
	})
}
