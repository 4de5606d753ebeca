package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Name     string  `json:"name" validate:"required,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Website  string  `json:"website" validate:"nullable,url"`
	Role     string  `json:"role" validate:"nullable,in=customer,admin"`
	Rating   int     `json:"rating" validate:"nullable,gte=1,lte=5"`
	Price    float64 `json:"price" validate:"nullable,gte=0,lte=1000000"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&registerForm{
		Name:     "Jo",
		Email:    "jo@example.com",
		Password: "hunter2hunter2",
		Website:  "https://example.com",
		Role:     "admin",
		Rating:   4,
		Price:    19.99,
	})
	assert.False(t, HasErrors(errs), "got: %v", errs)
}

func TestStructRequired(t *testing.T) {
	errs := Struct(&registerForm{})
	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The email field is required.", errs["email"])
	assert.Equal(t, "The password field is required.", errs["password"])
	assert.NotContains(t, errs, "website", "nullable empty field skips rules")
	assert.NotContains(t, errs, "rating")
}

func TestStructRules(t *testing.T) {
	errs := Struct(&registerForm{
		Name:     "Jo",
		Email:    "not-an-email",
		Password: "short",
		Website:  "ftp://example.com",
		Role:     "superuser",
		Rating:   9,
	})
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
	assert.Equal(t, "The password must be at least 8 characters.", errs["password"])
	assert.Equal(t, "The website must be a valid URL.", errs["website"])
	assert.Equal(t, "The selected role is invalid.", errs["role"])
	assert.Equal(t, "The rating must be less than or equal to 5.", errs["rating"])
}

func TestStructNumericBounds(t *testing.T) {
	type bounds struct {
		Stock int `json:"stock" validate:"required,gte=1"`
	}
	errs := Struct(&bounds{Stock: 0})
	assert.Contains(t, errs, "stock")

	errs = Struct(&bounds{Stock: 3})
	assert.False(t, HasErrors(errs))
}

func TestStructMaxLength(t *testing.T) {
	long := make([]byte, 60)
	for i := range long {
		long[i] = 'a'
	}
	errs := Struct(&registerForm{
		Name:     string(long),
		Email:    "jo@example.com",
		Password: "hunter2hunter2",
	})
	assert.Equal(t, "The name must not exceed 50 characters.", errs["name"])
}
