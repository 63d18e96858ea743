package caster_test

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crownbind/caster"
	"crownbind/loaderr"
	"crownbind/primitive"
)

type moreThanError interface {
	error
	More()
}

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }

func ExampleCaster() {
	desc, err := caster.ParseCaster(full)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = caster.ParseCaster(strconv.Itoa)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = caster.ParseCaster(strconv.Atoi)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = caster.ParseCaster(customError)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	_, err = caster.ParseCaster(empty)
	fmt.Println(err)

	_, err = caster.ParseCaster(wrong)
	fmt.Println(err)

	_, err = caster.ParseCaster(42)
	fmt.Println(err)

	// Output:
	// <nil> caster_test full int string true true
	// <nil> strconv Itoa int string false false
	// <nil> strconv Atoi string int false true
	// <nil> caster_test customError int string false true
	// provided function is not a recognizable caster
	// provided function is not a recognizable caster
	// provided caster is not a function
}

func ExampleStem() {
	st := caster.NewStem("id", nil)
	fmt.Println(st.Next(), st.Next(), st.Next())

	ns := caster.NewNamespace("val2")
	st = caster.NewStem("val", ns)
	fmt.Println(st.Next(), st.Next(), st.Next(), ns.Reserve("val5"), ns.Reserve("val3"))

	// Output:
	// id1 id2 id3
	// val1 val3 val4 true false
}

func TestConverter(t *testing.T) {
	t.Parallel()

	t.Run("error result", func(t *testing.T) {
		t.Parallel()

		c, err := caster.ParseCaster(strconv.Atoi)
		require.NoError(t, err)

		conv := c.Converter(primitive.CategoryStrict)

		got, err := conv("12")
		require.NoError(t, err)
		assert.Equal(t, 12, got)

		_, err = conv("x")

		var numErr *strconv.NumError
		require.ErrorAs(t, err, &numErr)

		_, err = conv(5)

		var typeErr *loaderr.TypeLoadError
		require.ErrorAs(t, err, &typeErr)
	})

	t.Run("bool result", func(t *testing.T) {
		t.Parallel()

		c, err := caster.ParseCaster(func(v int) (string, bool) { return strconv.Itoa(v), v > 0 })
		require.NoError(t, err)

		conv := c.Converter(primitive.CategoryStrict)

		got, err := conv(3.0)
		require.NoError(t, err)
		assert.Equal(t, "3", got)

		_, err = conv(-1)

		var valueErr *loaderr.ValueLoadError
		require.ErrorAs(t, err, &valueErr)
		assert.Contains(t, valueErr.Msg, "rejected by caster_test.")
	})

	t.Run("pointer argument", func(t *testing.T) {
		t.Parallel()

		c, err := caster.ParseCaster(func(p *int) string {
			if p == nil {
				return "none"
			}

			return strconv.Itoa(*p)
		})
		require.NoError(t, err)

		conv := c.Converter(primitive.CategoryLax)

		got, err := conv("7")
		require.NoError(t, err)
		assert.Equal(t, "7", got)

		got, err = conv(nil)
		require.NoError(t, err)
		assert.Equal(t, "none", got)
	})

	t.Run("struct argument", func(t *testing.T) {
		t.Parallel()

		type point struct{ X int }

		c, err := caster.ParseCaster(func(p point) int { return p.X })
		require.NoError(t, err)

		conv := c.Converter(primitive.CategoryLax)

		got, err := conv(point{X: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, got)

		_, err = conv(map[string]any{"X": 2})
		require.Error(t, err)
	})

	t.Run("error passthrough", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")

		c, err := caster.ParseCaster(func(string) (int, error) { return 0, boom })
		require.NoError(t, err)

		_, err = c.Converter(primitive.CategoryNone)("a")
		require.ErrorIs(t, err, boom)
	})
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src, dst reflect.Type
		want     caster.DispatcherEnum
	}{
		{reflect.TypeFor[float64](), reflect.TypeFor[int](), caster.DispatcherPrimitive},
		{reflect.TypeFor[string](), reflect.TypeFor[any](), caster.DispatcherInterface},
		{reflect.TypeFor[[]int](), reflect.TypeFor[[2]int](), caster.DispatcherSlice},
		{reflect.TypeFor[int](), reflect.TypeFor[[]int](), caster.DispatcherUnknown},
		{reflect.TypeFor[map[string]int](), reflect.TypeFor[map[string]any](), caster.DispatcherMap},
		{reflect.TypeFor[struct{}](), reflect.TypeFor[struct{ A int }](), caster.DispatcherStruct},
		{reflect.TypeFor[struct{}](), reflect.TypeFor[int](), caster.DispatcherUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, caster.Dispatch(tt.src, tt.dst))
		})
	}

	assert.Panics(t, func() { caster.Dispatch(reflect.TypeFor[*int](), reflect.TypeFor[int]()) })
}
