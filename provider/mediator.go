package provider

import (
	"reflect"

	"github.com/rs/zerolog"
)

// Provider serves requests. It returns *CannotProvide when it can not
// help; any other error is fatal and stops the search.
type Provider interface {
	Provide(m Mediator, req Request) (any, error)
}

// Mediator resolves requests for a provider. Provide scans the whole
// recipe; ProvideFromNext scans from the position after the calling
// provider.
type Mediator interface {
	Provide(req Request) (any, error)
	ProvideFromNext(req Request) (any, error)
}

// Cache keeps results across mediators. Keys are requests compared with ==.
type Cache interface {
	Load(req Request) (any, bool)
	Store(req Request, result any)
}

type searchKey struct {
	req   Request
	start int
}

type outcome struct {
	result any
	err    *CannotProvide
}

// resolution is the state shared by every cursor of one mediator.
type resolution struct {
	recipe Recipe
	cache  Cache
	memo   map[searchKey]outcome
	active map[searchKey]bool
	logger zerolog.Logger
}

// cursor is a Mediator bound to a recipe position.
type cursor struct {
	res *resolution
	pos int
}

// Option configures a mediator.
type Option func(*resolution)

// WithCache makes top-level searches consult and fill c.
func WithCache(c Cache) Option {
	return func(r *resolution) {
		r.cache = c
	}
}

// WithLogger sends resolution events to logger. Without it they are
// discarded.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *resolution) {
		r.logger = logger
	}
}

// LoggerOf returns the logger of the resolution m belongs to, or a
// disabled logger for mediators built elsewhere.
func LoggerOf(m Mediator) *zerolog.Logger {
	if c, ok := m.(cursor); ok {
		return &c.res.logger
	}

	nop := zerolog.Nop()

	return &nop
}

// NewMediator returns a mediator over recipe. Its results are cached for
// its own lifetime only, unless a Cache is supplied.
func NewMediator(recipe Recipe, opts ...Option) Mediator {
	res := &resolution{
		recipe: recipe,
		memo:   make(map[searchKey]outcome),
		active: make(map[searchKey]bool),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(res)
	}

	return cursor{res: res, pos: -1}
}

func (c cursor) Provide(req Request) (any, error) {
	return c.res.search(req, 0)
}

func (c cursor) ProvideFromNext(req Request) (any, error) {
	return c.res.search(req, c.pos+1)
}

func (r *resolution) search(req Request, start int) (any, error) {
	if req == nil || !reflect.ValueOf(req).Comparable() {
		return nil, incomparableError(req)
	}

	key := searchKey{req: req, start: start}

	if out, ok := r.memo[key]; ok {
		if out.err != nil {
			return nil, out.err
		}

		return out.result, nil
	}

	if start == 0 && r.cache != nil {
		if result, ok := r.cache.Load(req); ok {
			r.logger.Debug().Str("request", Describe(req)).Msg("persistent cache hit")

			return result, nil
		}
	}

	if r.active[key] {
		r.logger.Debug().Str("request", Describe(req)).Int("start", start).Msg("cyclic resolution")

		return nil, cycleError(req, start)
	}

	r.active[key] = true
	defer delete(r.active, key)

	declined := Decline("cannot provide %s", Describe(req))

	for pos := start; pos < len(r.recipe); pos++ {
		result, err := r.recipe[pos].Provide(cursor{res: r, pos: pos}, req)
		if err == nil {
			r.logger.Debug().Str("request", Describe(req)).Int("position", pos).Msg("request resolved")

			r.memo[key] = outcome{result: result}
			if start == 0 && r.cache != nil {
				r.cache.Store(req, result)
			}

			return result, nil
		}

		cp, ok := AsCannotProvide(err)
		if !ok {
			return nil, err
		}

		declined.Because(cp)
	}

	r.logger.Debug().Str("request", Describe(req)).Int("start", start).Msg("no provider matched")

	r.memo[key] = outcome{err: declined}

	return nil, declined
}

// Resolve resolves req from a fresh mediator. An unresolved request is a
// fatal error naming the request and every reason collected.
func Resolve(recipe Recipe, req Request, opts ...Option) (any, error) {
	result, err := NewMediator(recipe, opts...).Provide(req)
	if err == nil {
		return result, nil
	}

	if cp, ok := AsCannotProvide(err); ok {
		return nil, noProviderError(req, cp)
	}

	return nil, err
}

// ProvideAs resolves req through m and checks the result type. A decline
// is returned unchanged so callers can keep searching.
func ProvideAs[T any](m Mediator, req Request) (T, error) {
	var zero T

	result, err := m.Provide(req)
	if err != nil {
		return zero, err
	}

	return cast[T](req, result)
}

// ProvideFromNextAs is ProvideAs for ProvideFromNext.
func ProvideFromNextAs[T any](m Mediator, req Request) (T, error) {
	var zero T

	result, err := m.ProvideFromNext(req)
	if err != nil {
		return zero, err
	}

	return cast[T](req, result)
}

// ResolveAs is Resolve with a result type check.
func ResolveAs[T any](recipe Recipe, req Request, opts ...Option) (T, error) {
	var zero T

	result, err := Resolve(recipe, req, opts...)
	if err != nil {
		return zero, err
	}

	return cast[T](req, result)
}

func cast[T any](req Request, result any) (T, error) {
	if result == nil && reflect.TypeFor[T]().Kind() == reflect.Interface {
		var zero T

		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		var zero T

		return zero, wrongResultError(req, reflect.TypeFor[T]().String(), result)
	}

	return typed, nil
}
