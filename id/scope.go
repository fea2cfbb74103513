package id

type Scope uint64

const ScopeNone Scope = 0

const ScopeAll Scope = ScopeUpload |
	ScopeRead |
	ScopeUpdate |
	ScopeDelete |
	ScopePurchase

const (
	ScopeUpload Scope = 1 << iota
	ScopeRead
	ScopeUpdate
	ScopeDelete
	ScopePurchase
	ScopeEnd
)

// ScopeUnion returns the union of all the input scopes.
func ScopeUnion(scopes ...Scope) Scope {
	result := ScopeNone
	for _, scope := range scopes {
		result |= scope
	}
	return result
}

// Contains checks whether the scope contains a specific scope.
func (s Scope) Contains(scope Scope) bool {
	return (s & scope) == scope
}
