package atlas

import (
	"errors"
	"reflect"
	"testing"
)

func testAtlases() []Atlas {
	return []Atlas{
		{Name: "albert", MinAge: 28, MaxAge: 44},
		{Name: "neonatal-v2", MinAge: 28, MaxAge: 44, TissueAtlas: "non-rigid-v2"},
	}
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name        string
		atlases     []Atlas
		defaultName string
		wantDefault string
		wantErr     bool
	}{
		{
			name:        "explicit default",
			atlases:     testAtlases(),
			defaultName: "neonatal-v2",
			wantDefault: "neonatal-v2",
		},
		{
			name:        "implicit albert default",
			atlases:     testAtlases(),
			wantDefault: "albert",
		},
		{
			name:        "first sorted name when albert absent",
			atlases:     []Atlas{{Name: "zeta", MinAge: 28, MaxAge: 44}, {Name: "beta", MinAge: 28, MaxAge: 44}},
			wantDefault: "beta",
		},
		{
			name:    "empty registry",
			atlases: nil,
			wantErr: true,
		},
		{
			name:        "unknown default",
			atlases:     testAtlases(),
			defaultName: "missing",
			wantErr:     true,
		},
		{
			name:    "inverted age range",
			atlases: []Atlas{{Name: "bad", MinAge: 44, MaxAge: 28}},
			wantErr: true,
		},
		{
			name:    "empty name",
			atlases: []Atlas{{MinAge: 28, MaxAge: 44}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.atlases, tt.defaultName)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRegistry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := r.Default().Name; got != tt.wantDefault {
				t.Errorf("Default() = %q, want %q", got, tt.wantDefault)
			}
		})
	}
}

func TestRegistryResolve(t *testing.T) {
	r, err := NewRegistry(testAtlases(), "")
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	a, err := r.Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") error = %v", err)
	}
	if a.Name != "albert" {
		t.Errorf("Resolve(\"\") = %q, want default albert", a.Name)
	}

	a, err = r.Resolve("neonatal-v2")
	if err != nil {
		t.Fatalf("Resolve(neonatal-v2) error = %v", err)
	}
	if a.TissueAtlas != "non-rigid-v2" {
		t.Errorf("Resolve(neonatal-v2).TissueAtlas = %q, want non-rigid-v2", a.TissueAtlas)
	}

	if _, err := r.Resolve("nope"); !errors.Is(err, ErrUnknownAtlas) {
		t.Errorf("Resolve(nope) error = %v, want ErrUnknownAtlas", err)
	}
}

func TestRegistryNames(t *testing.T) {
	r, err := NewRegistry(testAtlases(), "")
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	want := []string{"albert", "neonatal-v2"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
