package validation

import (
	"strings"
	"testing"
)

type registrationPayload struct {
	Name                 string  `json:"name" validate:"required"`
	Email                string  `json:"email" validate:"required,email"`
	Password             string  `json:"password" validate:"required,min=6"`
	PasswordConfirmation string  `json:"passwordConfirmation" validate:"required,eqfield=Password"`
	Rating               float64 `json:"rating" validate:"gte=0,lte=5"`
}

func TestValidateStructPassesValidPayload(t *testing.T) {
	t.Parallel()

	payload := registrationPayload{
		Name:                 "joao",
		Email:                "joao@test.com",
		Password:             "123123",
		PasswordConfirmation: "123123",
		Rating:               4.5,
	}

	if msgs := ValidateStruct(&payload); msgs != nil {
		t.Fatalf("expected no messages, got %v", msgs)
	}
}

func TestValidateStructBatchesAllFailures(t *testing.T) {
	t.Parallel()

	payload := registrationPayload{
		Email:                "not-an-email",
		Password:             "123",
		PasswordConfirmation: "456",
		Rating:               7,
	}

	msgs := ValidateStruct(&payload)
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d: %v", len(msgs), msgs)
	}

	joined := strings.Join(msgs, "; ")
	for _, want := range []string{
		"name has not been informed",
		"email must be a valid e-mail address",
		"password must be at least 6 characters",
		"passwords must match",
		"rating must not be higher than 5",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %q", want, joined)
		}
	}
}

func TestValidateStructUsesJSONFieldNames(t *testing.T) {
	t.Parallel()

	payload := struct {
		RecipeID uint `json:"recipeId" validate:"required"`
	}{}

	msgs := ValidateStruct(&payload)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %v", msgs)
	}
	if !strings.Contains(msgs[0], "recipeId") {
		t.Fatalf("expected json field name in %q", msgs[0])
	}
}
