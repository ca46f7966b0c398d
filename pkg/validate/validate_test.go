package validate_test

import (
	"testing"

	"github.com/keysncaps/keysncaps/pkg/validate"
)

type registerInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Website  string `json:"website"  validate:"nullable,min=4"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
		Website:  "", // nullable, allowed to be empty
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); !validate.HasErrors(errs) {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gt=0"`
		Stock    int `json:"stock"    validate:"gte=0,lte=10000"`
	}
	if errs := validate.Struct(in{Quantity: 0, Stock: 5}); !validate.HasErrors(errs) {
		t.Error("expected quantity 0 to fail gt=0")
	}
	if errs := validate.Struct(in{Quantity: 2, Stock: 20000}); !validate.HasErrors(errs) {
		t.Error("expected stock 20000 to fail lte=10000")
	}
	if errs := validate.Struct(in{Quantity: 2, Stock: 100}); validate.HasErrors(errs) {
		t.Errorf("expected valid input to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=pending|processing|shipped|delivered|cancelled"`
	}
	if errs := validate.Struct(in{Status: "refunded"}); !validate.HasErrors(errs) {
		t.Error("expected unknown status to fail")
	}
	if errs := validate.Struct(in{Status: "shipped"}); validate.HasErrors(errs) {
		t.Errorf("expected shipped to pass, got: %v", errs)
	}
}

func TestMinMaxStringLength(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,min=2,max=5"`
	}
	if errs := validate.Struct(in{Name: "a"}); !validate.HasErrors(errs) {
		t.Error("expected 1-char name to fail min=2")
	}
	if errs := validate.Struct(in{Name: "toolong"}); !validate.HasErrors(errs) {
		t.Error("expected 7-char name to fail max=5")
	}
}

func TestPointerInput(t *testing.T) {
	errs := validate.Struct(&registerInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected pointer input to validate, got: %v", errs)
	}
}

func TestSliceElementRules(t *testing.T) {
	type line struct {
		Price    float64 `json:"price" validate:"required,gte=0"`
		Quantity int     `json:"quantity" validate:"required,gt=0"`
	}
	type cart struct {
		Items []line `json:"items" validate:"required"`
	}

	errs := validate.Struct(cart{Items: []line{
		{Price: 10, Quantity: 2},
		{Price: 5, Quantity: 0},
	}})
	if !validate.HasErrors(errs) {
		t.Fatal("expected zero-quantity element to fail")
	}
	if _, ok := errs["items.1.quantity"]; !ok {
		t.Errorf("expected error keyed items.1.quantity, got: %v", errs)
	}

	if errs := validate.Struct(cart{Items: []line{{Price: 10, Quantity: 1}}}); validate.HasErrors(errs) {
		t.Errorf("expected valid items to pass, got: %v", errs)
	}
}
