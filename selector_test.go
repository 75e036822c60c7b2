package di

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	gadget    interface{ Name() string }
	gizmo     struct{}
	doohickey struct {
		ctor    string
		widgets []widget
	}
)

func (gizmo) Name() string { return "gizmo" }

var gadgetType = reflect.TypeOf((*gadget)(nil)).Elem()

func newDoohickey() *doohickey { return &doohickey{ctor: "none"} }

func newDoohickeyWithWidget(w widget) *doohickey { return &doohickey{ctor: "widget"} }

func newDoohickeyWithGadget(g gadget) *doohickey { return &doohickey{ctor: "gadget"} }

func newDoohickeyWithBoth(w widget, g gadget) *doohickey { return &doohickey{ctor: "both"} }

func newDoohickeyWithWidgets(ws []widget) *doohickey {
	return &doohickey{ctor: "widgets", widgets: ws}
}

func TestSelectConstructor(t *testing.T) {
	tests := []struct {
		name    string
		ctors   []any
		setup   func(t *testing.T, s *registrationStore)
		want    string
		wantErr bool
	}{
		{
			name:  "richest eligible constructor wins",
			ctors: []any{newDoohickey, newDoohickeyWithWidget, newDoohickeyWithBoth},
			setup: func(t *testing.T, s *registrationStore) {
				require.NoError(t, s.add(handlerReg(widgetType, "")))
				require.NoError(t, s.add(handlerReg(gadgetType, "")))
			},
			want: "both",
		},
		{
			name:  "constructors with unresolvable dependencies are skipped",
			ctors: []any{newDoohickeyWithBoth, newDoohickeyWithWidget, newDoohickey},
			setup: func(t *testing.T, s *registrationStore) {
				require.NoError(t, s.add(handlerReg(widgetType, "")))
			},
			want: "widget",
		},
		{
			name:  "ambiguous dependency is not eligible",
			ctors: []any{newDoohickeyWithWidget, newDoohickey},
			setup: func(t *testing.T, s *registrationStore) {
				require.NoError(t, s.add(handlerReg(widgetType, "")))
				require.NoError(t, s.add(handlerReg(widgetType, "")))
			},
			want: "none",
		},
		{
			name:  "tie goes to the first declared",
			ctors: []any{newDoohickeyWithGadget, newDoohickeyWithWidget},
			setup: func(t *testing.T, s *registrationStore) {
				require.NoError(t, s.add(handlerReg(widgetType, "")))
				require.NoError(t, s.add(handlerReg(gadgetType, "")))
			},
			want: "gadget",
		},
		{
			name:  "slice dependency accepts several element registrations",
			ctors: []any{newDoohickey, newDoohickeyWithWidgets},
			setup: func(t *testing.T, s *registrationStore) {
				require.NoError(t, s.add(handlerReg(widgetType, "")))
				require.NoError(t, s.add(handlerReg(widgetType, "")))
			},
			want: "widgets",
		},
		{
			name:  "slice dependency needs at least one registration",
			ctors: []any{newDoohickey, newDoohickeyWithWidgets},
			want:  "none",
		},
		{
			name:    "no eligible constructor",
			ctors:   []any{newDoohickeyWithWidget, newDoohickeyWithGadget},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var store registrationStore
			if tt.setup != nil {
				tt.setup(t, &store)
			}

			d := mustDescriptor(t, Implement[*doohickey](tt.ctors...))
			ctor, err := selectConstructor(d, &store)

			if tt.wantErr {
				var noCtor *NoEligibleConstructorError
				require.ErrorAs(t, err, &noCtor)
				assert.Len(t, noCtor.Constructors, len(tt.ctors))
				assert.ErrorIs(t, err, ErrNoEligibleConstructor)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, ctor)

			assert.Equal(t, tt.want, callWithZeroArgs(ctor.Value).ctor)
		})
	}

	t.Run("default construction without constructors", func(t *testing.T) {
		var store registrationStore
		ctor, err := selectConstructor(mustDescriptor(t, Implement[*doohickey]()), &store)
		require.NoError(t, err)
		assert.Nil(t, ctor)
	})
}

// callWithZeroArgs calls a doohickey constructor with zero-valued arguments.
func callWithZeroArgs(fn reflect.Value) *doohickey {
	args := make([]reflect.Value, fn.Type().NumIn())
	for i := range args {
		args[i] = reflect.Zero(fn.Type().In(i))
	}
	return fn.Call(args)[0].Interface().(*doohickey)
}

func TestDescriptor_DefaultInstance(t *testing.T) {
	tests := []struct {
		name string
		impl Implementation
		want any
		ok   bool
	}{
		{"pointer to struct", Implement[*gizmo](), &gizmo{}, true},
		{"struct value", Implement[gizmo](), gizmo{}, true},
		{"int", Implement[int](), 0, true},
		{"string", Implement[string](), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDescriptor(t, tt.impl)
			v, ok := d.defaultInstance()
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v.Interface())
		})
	}

	t.Run("new allocation every call", func(t *testing.T) {
		d := mustDescriptor(t, Implement[*doohickey]())
		a, _ := d.defaultInstance()
		b, _ := d.defaultInstance()
		assert.NotSame(t, a.Interface(), b.Interface())
	})

	t.Run("kinds without a usable zero value need a constructor", func(t *testing.T) {
		for _, impl := range []Implementation{
			Implement[gadget](),
			Implement[func()](),
			Implement[map[string]int](),
			Implement[chan int](),
			Implement[*int](),
		} {
			_, err := newDescriptor(impl, nil)
			assert.ErrorIs(t, err, ErrInvalidConstructor, impl.Type.String())
		}
	})
}
