package localstore

import (
	"context"
	"sync"

	"github.com/pageza/recetario/internal/model"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences are the display settings kept on the client. Missing or
// unrecognized values read as light theme and medium font.
type Preferences struct {
	kv KV
	mu sync.Mutex
}

func NewPreferences(kv KV) *Preferences {
	return &Preferences{kv: kv}
}

func (p *Preferences) Theme(ctx context.Context) (Theme, error) {
	v, ok, err := p.kv.Get(ctx, KeyTheme)
	if err != nil {
		return ThemeLight, err
	}
	if ok && Theme(v) == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

func (p *Preferences) SetTheme(ctx context.Context, t Theme) error {
	if t != ThemeDark {
		t = ThemeLight
	}
	return p.kv.Set(ctx, KeyTheme, string(t))
}

// ToggleTheme flips between light and dark and returns the new theme.
func (p *Preferences) ToggleTheme(ctx context.Context) (Theme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.Theme(ctx)
	if err != nil {
		return current, err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	if err := p.SetTheme(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

func (p *Preferences) FontSize(ctx context.Context) (model.FontSize, error) {
	v, ok, err := p.kv.Get(ctx, KeyFontSize)
	if err != nil {
		return model.FontMedium, err
	}
	if !ok {
		return model.FontMedium, nil
	}
	if f, valid := model.ParseFontSize(v); valid {
		return f, nil
	}
	return model.FontMedium, nil
}

func (p *Preferences) SetFontSize(ctx context.Context, f model.FontSize) error {
	if _, ok := model.ParseFontSize(string(f)); !ok {
		f = model.FontMedium
	}
	return p.kv.Set(ctx, KeyFontSize, string(f))
}
