package validator

import "testing"

type sample struct {
	Comment string `json:"comment" validate:"notblank,max=10"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
}

func TestNotBlankAndFieldErrors(t *testing.T) {
	v := New()

	err := v.Struct(sample{Comment: "   ", Rating: 9})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := FieldErrors(err)
	if fields["Comment"] != "notblank" {
		t.Fatalf("expected Comment to fail notblank, got %v", fields)
	}
	if fields["Rating"] != "max" {
		t.Fatalf("expected Rating to fail max, got %v", fields)
	}

	if err := v.Struct(sample{Comment: "ok", Rating: 3}); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}
