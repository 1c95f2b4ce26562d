package atlas

import (
	"errors"
	"math"
	"testing"
)

func TestAtlasClampAge(t *testing.T) {
	a := Atlas{Name: "albert", MinAge: 28, MaxAge: 44}

	tests := []struct {
		name        string
		age         float64
		want        int
		wantClamped bool
	}{
		{name: "in range integer", age: 40, want: 40, wantClamped: false},
		{name: "rounds down", age: 36.4, want: 36, wantClamped: false},
		{name: "rounds up", age: 36.5, want: 37, wantClamped: false},
		{name: "below range", age: 25, want: 28, wantClamped: true},
		{name: "above range", age: 46, want: 44, wantClamped: true},
		{name: "rounds into range", age: 44.4, want: 44, wantClamped: false},
		{name: "rounds out of range", age: 44.6, want: 44, wantClamped: true},
		{name: "lower bound exact", age: 28, want: 28, wantClamped: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := a.ClampAge(tt.age)
			if got != tt.want {
				t.Errorf("ClampAge(%v) = %d, want %d", tt.age, got, tt.want)
			}
			if clamped != tt.wantClamped {
				t.Errorf("ClampAge(%v) clamped = %v, want %v", tt.age, clamped, tt.wantClamped)
			}
		})
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		name    string
		age     float64
		wantErr bool
	}{
		{name: "valid", age: 40, wantErr: false},
		{name: "valid fractional", age: 32.5, wantErr: false},
		{name: "zero", age: 0, wantErr: true},
		{name: "negative", age: -3, wantErr: true},
		{name: "NaN", age: math.NaN(), wantErr: true},
		{name: "Inf", age: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseAge(tt.age)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseAge(%v) error = %v, wantErr %v", tt.age, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAge) {
				t.Errorf("ParseAge(%v) error = %v, want ErrInvalidAge", tt.age, err)
			}
		})
	}
}

func TestAtlasDir(t *testing.T) {
	tests := []struct {
		name  string
		atlas Atlas
		want  string
	}{
		{name: "path defaults to name", atlas: Atlas{Name: "albert"}, want: "/atlases/albert"},
		{name: "explicit path", atlas: Atlas{Name: "albert", Path: "ALBERTs-v2"}, want: "/atlases/ALBERTs-v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.atlas.Dir("/atlases"); got != tt.want {
				t.Errorf("Dir() = %q, want %q", got, tt.want)
			}
		})
	}
}
