package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themestate/internal/model"
)

func TestFromContext_OutsideProvider(t *testing.T) {
	h, err := FromContext(context.Background())

	assert.Nil(t, h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutsideProvider))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "theme.FromContext", cfgErr.Op)
	assert.Contains(t, err.Error(), "used outside provider")
}

func TestFromContext_InsideProvider(t *testing.T) {
	p := NewProvider(context.Background(), ProviderOptions{DefaultMode: model.ModeDark})
	defer p.Close()

	ctx := p.Context(context.Background())

	h, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, p.Handle(), h)
	assert.Equal(t, model.ModeDark, h.Mode())

	h.ToggleMode()
	assert.Equal(t, model.ModeSystem, p.Handle().Mode())
}

func TestFromContext_NestedProvidersShadow(t *testing.T) {
	outer := NewProvider(context.Background(), ProviderOptions{DefaultMode: model.ModeLight})
	defer outer.Close()
	inner := NewProvider(context.Background(), ProviderOptions{DefaultMode: model.ModeDark})
	defer inner.Close()

	ctx := inner.Context(outer.Context(context.Background()))

	h := MustFromContext(ctx)
	assert.Equal(t, model.ModeDark, h.Mode())
}

func TestFromContext_AfterClose(t *testing.T) {
	p := NewProvider(context.Background(), ProviderOptions{})
	ctx := p.Context(context.Background())

	p.Close()

	_, err := FromContext(ctx)
	assert.ErrorIs(t, err, ErrOutsideProvider)
}

func TestMustFromContext_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustFromContext(context.Background())
	})
}

func TestHandle_State(t *testing.T) {
	p := NewProvider(context.Background(), ProviderOptions{DefaultMode: model.ModeDark})
	defer p.Close()

	h := p.Handle()
	assert.Equal(t, State{
		Mode:     model.ModeDark,
		System:   model.AppearanceLight,
		Resolved: model.AppearanceDark,
	}, h.State())
	assert.Equal(t, DefaultConfig(), h.Config())

	ch := h.Subscribe()
	h.SetMode(model.ModeLight)
	ev := <-ch
	assert.Equal(t, CauseMode, ev.Cause)

	h.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
}
