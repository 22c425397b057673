package experts

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterNormalizesInput(t *testing.T) {
	service := NewService(NewMemoryRepo())

	expert, err := service.Register(context.Background(), RegisterInput{
		Name:       "  Ana Ruiz  ",
		Email:      " Ana@Example.COM ",
		Industries: []string{"Retail", " retail ", "", "Salud"},
		Categories: []string{"Ventas", "ventas"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if expert.Name != "Ana Ruiz" {
		t.Fatalf("name = %q", expert.Name)
	}
	if expert.Email != "ana@example.com" {
		t.Fatalf("email = %q", expert.Email)
	}
	if len(expert.Industries) != 2 {
		t.Fatalf("industries = %v, want deduped pair", expert.Industries)
	}
	if len(expert.Categories) != 1 {
		t.Fatalf("categories = %v, want deduped single", expert.Categories)
	}
	if !expert.Active {
		t.Fatal("new expert should be active")
	}

	stored, err := service.Get(context.Background(), expert.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Email != expert.Email {
		t.Fatalf("stored email = %q", stored.Email)
	}
}

func TestRegisterValidation(t *testing.T) {
	service := NewService(NewMemoryRepo())

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.com"}},
		{"missing email", RegisterInput{Name: "Ana"}},
		{"malformed email", RegisterInput{Name: "Ana", Email: "not-an-email"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Register(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestListActiveOrdered(t *testing.T) {
	repo := NewMemoryRepo()
	service := NewService(repo)
	for _, e := range []Expert{
		{ID: "exp-c", Name: "C", Email: "c@x.com", Active: true},
		{ID: "exp-a", Name: "A", Email: "a@x.com", Active: true},
		{ID: "exp-b", Name: "B", Email: "b@x.com", Active: false},
	} {
		if err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	list, err := service.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("active = %d, want 2", len(list))
	}
	if list[0].ID != "exp-a" || list[1].ID != "exp-c" {
		t.Fatalf("order = %s, %s", list[0].ID, list[1].ID)
	}
}
