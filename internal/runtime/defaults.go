package runtime

import "github.com/aretw0/magie/pkg/domain"

// DefaultResolver fills well-known entities the user is never asked for:
// the account number (known from configuration) and the account class,
// which defaults to the primary checking account.
type DefaultResolver struct {
	defaults map[string]any
}

// NewDefaultResolver creates a resolver for a fixed account number.
func NewDefaultResolver(accountNumber string) *DefaultResolver {
	return &DefaultResolver{
		defaults: map[string]any{
			domain.EntityAccountNumber: accountNumber,
			domain.EntityAccountType:   "corrente",
		},
	}
}

// Apply returns a copy of entities with each default set only if absent.
// User-supplied values are never overwritten, which also makes the
// function idempotent: Apply(Apply(x)) == Apply(x).
func (r *DefaultResolver) Apply(entities map[string]any) map[string]any {
	out := make(map[string]any, len(entities)+len(r.defaults))
	for k, v := range entities {
		out[k] = v
	}
	for k, v := range r.defaults {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}
