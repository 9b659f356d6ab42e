package env

import (
	"testing"

	"github.com/gosight/gosight/tracer/internal/model"
)

func TestStateDefaults(t *testing.T) {
	s := NewState("https://shop.example/cart")
	c := s.Connection()
	if !c.Online || c.EffectiveType != model.EffectiveUnknown {
		t.Errorf("connection = %+v, want online/unknown", c)
	}
	if s.URL() != "https://shop.example/cart" {
		t.Errorf("url = %q", s.URL())
	}
}

func TestStateUpdatesAreVisible(t *testing.T) {
	s := NewState("")
	s.SetOnline(false)
	s.SetEffectiveType(model.Effective3G)
	s.SetURL("https://shop.example/checkout")

	c := s.Connection()
	if c.Online || c.EffectiveType != model.Effective3G {
		t.Errorf("connection = %+v, want offline/3g", c)
	}
	if s.URL() != "https://shop.example/checkout" {
		t.Errorf("url = %q", s.URL())
	}
}
