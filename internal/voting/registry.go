package voting

import (
	"sort"
	"sync"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
)

type compiledVoting struct {
	name string
	expr Expr
}

// Registry holds named votings so a voting expression can reference another
// by identifier (e.g. "CombSum * RR") and have it evaluated against the
// same voter list. Registration is not cyclic-safe by construction; a
// voting that (transitively) references itself is rejected the first time
// it is evaluated.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*compiledVoting
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*compiledVoting)}
}

// Register compiles source and stores it under name, overwriting any
// previous registration of that name.
func (r *Registry) Register(name, source string) error {
	expr, err := parse(source)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = &compiledVoting{name: name, expr: expr}
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// Names returns every registered voting name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) getCompiled(name string) (*compiledVoting, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cv, ok := r.byName[name]
	return cv, ok
}

// Get returns the named voting as a Voting, ready to be invoked directly.
func (r *Registry) Get(name string) (Voting, error) {
	cv, ok := r.getCompiled(name)
	if !ok {
		return nil, ldaerr.NewNotFoundError("voting", name)
	}
	return &parsedVoting{expr: cv.expr}, nil
}
