// Package generate produces fresh employee records for data entry scenarios.
package generate

import (
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gravitational/trace"
)

const (
	// IDLength is the length of generated employee ids
	IDLength = 6
	// UsernameLength is the length of generated usernames
	UsernameLength = 8
	// PasswordLength is the length of generated passwords
	PasswordLength = 12

	digits   = "0123456789"
	upper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower    = "abcdefghijklmnopqrstuvwxyz"
	specials = "!@#$%"
)

// Employee is a generated employee identity with login credentials
type Employee struct {
	FirstName       string `json:"first_name"`
	MiddleName      string `json:"middle_name"`
	LastName        string `json:"last_name"`
	EmployeeID      string `json:"employee_id"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Generator produces test data from a seeded source
type Generator struct {
	faker *gofakeit.Faker
}

// New returns a generator. A zero seed picks a random one,
// any other seed makes the generated sequence reproducible
func New(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Employee returns a new employee record with credentials derived from its name
func (g *Generator) Employee() Employee {
	first := g.faker.FirstName()
	middle := g.faker.FirstName()
	last := g.faker.LastName()
	password := g.Password(PasswordLength)
	return Employee{
		FirstName:       first,
		MiddleName:      middle,
		LastName:        last,
		EmployeeID:      g.EmployeeID(IDLength, false),
		Username:        Username(first, middle, last, UsernameLength),
		Password:        password,
		ConfirmPassword: password,
	}
}

// EmployeeID returns a numeric id of the given length.
// Unless allowLeadingZero is set, the first digit is never zero
func (g *Generator) EmployeeID(length int, allowLeadingZero bool) string {
	if length <= 0 {
		return ""
	}
	var b strings.Builder
	if allowLeadingZero {
		b.WriteByte(g.pick(digits))
	} else {
		b.WriteByte(g.pick(digits[1:]))
	}
	for i := 1; i < length; i++ {
		b.WriteByte(g.pick(digits))
	}
	return b.String()
}

// Password returns a password of the given length with at least one
// upper case letter, one lower case letter, one digit and one special character
func (g *Generator) Password(length int) string {
	pool := []byte{g.pick(upper), g.pick(lower), g.pick(digits), g.pick(specials)}
	all := upper + lower + digits + specials
	for len(pool) < length {
		pool = append(pool, g.pick(all))
	}
	g.faker.Rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return string(pool)
}

func (g *Generator) pick(set string) byte {
	return set[g.faker.Rand.Intn(len(set))]
}

// Username derives a lower case login from the name parts: letters only,
// truncated or padded with 'x' to length
func Username(first, middle, last string, length int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(first + middle + last) {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if len(name) > length {
		return name[:length]
	}
	return name + strings.Repeat("x", length-len(name))
}

// Validate checks the record invariants
func (r Employee) Validate() error {
	var errors []error
	if r.FirstName == "" || r.LastName == "" {
		errors = append(errors, trace.BadParameter("first and last name are required"))
	}
	if r.EmployeeID == "" {
		errors = append(errors, trace.BadParameter("employee id is required"))
	}
	if r.Password != r.ConfirmPassword {
		errors = append(errors, trace.BadParameter("password confirmation does not match"))
	}
	return trace.NewAggregate(errors...)
}
