package provider_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crownbind/internal/common"
	"crownbind/provider"
)

type nameRequest struct {
	Key string
}

type countRequest struct{}

type sliceRequest struct {
	Keys []string
}

func named(result string, keys ...string) provider.Provider {
	return provider.Func(func(_ provider.Mediator, req provider.Request) (any, error) {
		r, ok := req.(nameRequest)
		if !ok {
			return nil, provider.Decline("not a name request")
		}

		for _, k := range keys {
			if k == r.Key {
				return result, nil
			}
		}

		return nil, provider.Decline("key %q is unknown", r.Key)
	})
}

func TestProvideFirstMatchWins(t *testing.T) {
	recipe := provider.Recipe{named("low", "a", "b")}.Extend(named("high", "a"))

	got, err := provider.Resolve(recipe, nameRequest{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, "high", got)

	got, err = provider.Resolve(recipe, nameRequest{Key: "b"})
	require.NoError(t, err)
	assert.Equal(t, "low", got)
}

func TestResolveNoProvider(t *testing.T) {
	recipe := provider.Recipe{named("x", "a"), named("y", "b")}

	_, err := provider.Resolve(recipe, nameRequest{Key: "zzz"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	msg := common.ErrMessage(err)
	assert.Contains(t, msg, "no provider found")
	assert.Equal(t, 2, strings.Count(msg, `key "zzz" is unknown`))

	_, isDecline := provider.AsCannotProvide(err)
	assert.False(t, isDecline)
}

func TestProvideFromNextWrapsNextResult(t *testing.T) {
	wrapper := provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		next, err := provider.ProvideFromNextAs[string](m, req)
		if err != nil {
			return nil, err
		}

		return "wrapped(" + next + ")", nil
	})

	recipe := provider.Recipe{wrapper, named("inner", "a")}

	got, err := provider.Resolve(recipe, nameRequest{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, "wrapped(inner)", got)
}

func TestProvideFromNextAtLastPositionDeclines(t *testing.T) {
	var seen error

	last := provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		_, seen = m.ProvideFromNext(req)

		return nil, provider.Decline("gave up")
	})

	_, err := provider.NewMediator(provider.Recipe{last}).Provide(countRequest{})
	require.Error(t, err)

	_, ok := provider.AsCannotProvide(seen)
	assert.True(t, ok)
}

func TestSubRequestsUseWholeRecipe(t *testing.T) {
	// the first provider answers count requests by asking for a name,
	// which only a later provider can serve
	counter := provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		if _, ok := req.(countRequest); !ok {
			return nil, provider.Decline("not a count request")
		}

		name, err := provider.ProvideAs[string](m, nameRequest{Key: "n"})
		if err != nil {
			return nil, err
		}

		return len(name), nil
	})

	got, err := provider.Resolve(provider.Recipe{counter, named("four", "n")}, countRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestCyclicResolutionIsFatal(t *testing.T) {
	loop := provider.Func(func(m provider.Mediator, req provider.Request) (any, error) {
		return m.Provide(req)
	})

	_, err := provider.Resolve(provider.Recipe{loop}, countRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Contains(t, common.ErrMessage(err), "cyclic resolution")
}

func TestFatalErrorStopsSearch(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	failing := provider.Func(func(provider.Mediator, provider.Request) (any, error) {
		return nil, boom
	})
	counting := provider.Func(func(provider.Mediator, provider.Request) (any, error) {
		calls++

		return 1, nil
	})

	_, err := provider.Resolve(provider.Recipe{failing, counting}, countRequest{})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, calls)
}

func TestIncomparableRequestIsFatal(t *testing.T) {
	_, err := provider.Resolve(provider.Recipe{named("x")}, sliceRequest{Keys: []string{"a"}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestMediatorMemoizesResults(t *testing.T) {
	calls := 0
	counting := provider.Func(func(provider.Mediator, provider.Request) (any, error) {
		calls++

		return calls, nil
	})

	m := provider.NewMediator(provider.Recipe{counting})

	first, err := m.Provide(nameRequest{Key: "a"})
	require.NoError(t, err)
	second, err := m.Provide(nameRequest{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// a fresh mediator searches again
	third, err := provider.NewMediator(provider.Recipe{counting}).Provide(nameRequest{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, third)
}

func TestPersistentCacheSharedAcrossMediators(t *testing.T) {
	calls := 0
	counting := provider.Func(func(provider.Mediator, provider.Request) (any, error) {
		calls++

		return calls, nil
	})

	cache := &provider.MapCache{}

	for range 3 {
		got, err := provider.Resolve(provider.Recipe{counting}, nameRequest{Key: "a"}, provider.WithCache(cache))
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestProvideAsWrongType(t *testing.T) {
	_, err := provider.ResolveAs[int](provider.Recipe{named("str", "a")}, nameRequest{Key: "a"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestResolutionLogger(t *testing.T) {
	var buf bytes.Buffer

	chatty := provider.Func(func(m provider.Mediator, _ provider.Request) (any, error) {
		provider.LoggerOf(m).Info().Msg("provider called")

		return "ok", nil
	})

	_, err := provider.Resolve(provider.Recipe{chatty}, countRequest{}, provider.WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "provider called")
	assert.Contains(t, buf.String(), "request resolved")

	silent := provider.Func(func(m provider.Mediator, _ provider.Request) (any, error) {
		return provider.LoggerOf(m).GetLevel(), nil
	})

	level, err := provider.Resolve(provider.Recipe{silent}, countRequest{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, level, "events are dropped without a logger")
}
