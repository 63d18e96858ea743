package retort

import (
	"reflect"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"

	"crownbind/internal/common"
	"crownbind/layout"
	"crownbind/morph"
	"crownbind/primitive"
	"crownbind/provider"
	"crownbind/shape"
)

// Retort resolves and caches converters of record types. It is safe for
// concurrent use.
type Retort struct {
	user       provider.Recipe
	trail      morph.DebugTrail
	strict     bool
	omitAbsent bool
	logger     zerolog.Logger

	recipe provider.Recipe
	cache  *provider.MapCache
}

// Option configures a Retort.
type Option func(*Retort)

// WithDebugTrail sets the error detail of every routine. The default is
// morph.DebugTrailAll.
func WithDebugTrail(trail morph.DebugTrail) Option {
	return func(r *Retort) {
		r.trail = trail
	}
}

// WithStrictCoercion turns lossy and textual scalar coercions off (true,
// the default) or on.
func WithStrictCoercion(strict bool) Option {
	return func(r *Retort) {
		r.strict = strict
	}
}

// WithOmitAbsent leaves absent optional values out of dumped data (true,
// the default) or writes them as null.
func WithOmitAbsent(omit bool) Option {
	return func(r *Retort) {
		r.omitAbsent = omit
	}
}

// WithRecipe adds providers after the ones added before.
func WithRecipe(providers ...provider.Provider) Option {
	return func(r *Retort) {
		r.user = append(r.user, providers...)
	}
}

// WithLogger sends resolution and compilation events to logger. Without
// it nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Retort) {
		r.logger = logger
	}
}

// New builds a Retort.
func New(opts ...Option) *Retort {
	r := &Retort{
		trail:      morph.DebugTrailAll,
		strict:     true,
		omitAbsent: true,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.build()

	return r
}

func (r *Retort) build() {
	defaults := provider.Recipe{
		provider.Value[morph.DebugTrailRequest](r.trail),
		provider.Value[morph.StrictCoercionRequest](r.strict),
		provider.Value[morph.OmitAbsentRequest](r.omitAbsent),
		primitive.Provider(),
		morph.AnyProvider(),
		morph.PointerProvider(),
		morph.SliceProvider(),
		morph.MapProvider(),
		shape.StructProvider(),
		shape.DynamicProvider(),
		layout.Provider(),
		morph.ModelLoaderProvider(),
		morph.ModelDumperProvider(),
	}

	r.recipe = defaults.Extend(r.user...)
	r.cache = &provider.MapCache{}
}

// Extend returns a new Retort whose recipe starts with providers followed
// by the recipe of r. r and its cache are left untouched.
func (r *Retort) Extend(providers ...provider.Provider) *Retort {
	out := &Retort{
		user:       r.user.Extend(providers...),
		trail:      r.trail,
		strict:     r.strict,
		omitAbsent: r.omitAbsent,
		logger:     r.logger,
	}

	out.build()

	return out
}

// Recipe returns a copy of the full recipe, user providers first.
func (r *Retort) Recipe() provider.Recipe {
	return r.recipe.Extend()
}

// Loader returns the loader of t, a reflect.Type or a *shape.Record.
func (r *Retort) Loader(t provider.TypeHint) (morph.Loader, error) {
	return resolve[morph.Loader](r, provider.LoaderRequest{Loc: provider.TypeLoc(t)})
}

// Dumper returns the dumper of t, a reflect.Type or a *shape.Record.
func (r *Retort) Dumper(t provider.TypeHint) (morph.Dumper, error) {
	return resolve[morph.Dumper](r, provider.DumperRequest{Loc: provider.TypeLoc(t)})
}

// Resolve serves any request through the recipe of r. Results are cached.
func (r *Retort) Resolve(req provider.Request) (any, error) {
	return provider.Resolve(r.recipe, req, r.resolveOptions()...)
}

func (r *Retort) resolveOptions() []provider.Option {
	return []provider.Option{provider.WithCache(r.cache), provider.WithLogger(r.logger)}
}

func resolve[T any](r *Retort, req provider.Request) (T, error) {
	if cached, ok := r.cache.Load(req); ok {
		if typed, ok := cached.(T); ok {
			r.logger.Debug().Str("request", provider.Describe(req)).Msg("routine cache hit")

			return typed, nil
		}
	}

	routine, err := provider.ResolveAs[T](r.recipe, req, r.resolveOptions()...)
	if err != nil {
		r.logger.Debug().Err(err).Str("request", provider.Describe(req)).Msg("routine not resolved")

		return routine, err
	}

	r.logger.Debug().
		Str("request", provider.Describe(req)).
		Int("cached", r.cache.Len()).
		Msg("routine resolved")

	return routine, nil
}

// Load loads data into a T.
func Load[T any](r *Retort, data any) (T, error) {
	var zero T

	t := reflect.TypeFor[T]()

	load, err := r.Loader(t)
	if err != nil {
		return zero, err
	}

	v, err := load(data)
	if err != nil {
		return zero, err
	}

	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("loader of " + common.TypeName(t) + " returned " + reflect.TypeOf(v).String())
	}

	return typed, nil
}

// Dump dumps a T.
func Dump[T any](r *Retort, value T) (any, error) {
	dump, err := r.Dumper(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	return dump(value)
}
