package validation

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// Checker evaluates the native constraint-validation predicate of an input.
type Checker struct {
	validate *validator.Validate

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewChecker creates a Checker backed by go-playground/validator.
func NewChecker() *Checker {
	return &Checker{
		validate: validator.New(),
		patterns: make(map[string]*regexp.Regexp),
	}
}

// emailRegex is the valid e-mail address grammar of the HTML standard, the
// one browsers apply to type=email inputs.
var emailRegex = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
	"[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?" +
	"(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// Tag renders the validator tag for the presence check.
func (c Constraints) Tag() string {
	if c.Required {
		return "required"
	}
	return "omitempty"
}

// LengthTag renders the validator tag applied to the value's length, or ""
// when no length is constrained.
func (c Constraints) LengthTag() string {
	var parts []string
	if c.MinLength > 0 {
		parts = append(parts, "min="+strconv.Itoa(c.MinLength))
	}
	if c.MaxLength > 0 {
		parts = append(parts, "max="+strconv.Itoa(c.MaxLength))
	}
	return strings.Join(parts, ",")
}

// Check reports whether value satisfies c. Lengths are counted in UTF-16
// code units, like minlength and maxlength. Email values are trimmed first,
// as browsers sanitize them. An invalid pattern is ignored, matching
// browser behavior.
func (ch *Checker) Check(value string, c Constraints) bool {
	if c.Type == TypeEmail {
		value = strings.TrimSpace(value)
	}
	if err := ch.validate.Var(value, c.Tag()); err != nil {
		return false
	}
	if value == "" {
		return true
	}
	if tag := c.LengthTag(); tag != "" {
		if err := ch.validate.Var(utf16Len(value), tag); err != nil {
			return false
		}
	}
	if c.Type == TypeEmail && !emailRegex.MatchString(value) {
		return false
	}
	if c.Pattern == "" {
		return true
	}
	re := ch.pattern(c.Pattern)
	if re == nil {
		return true
	}
	return re.MatchString(value)
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func (ch *Checker) pattern(p string) *regexp.Regexp {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if re, ok := ch.patterns[p]; ok {
		return re
	}
	re, err := regexp.Compile("^(?:" + p + ")$")
	if err != nil {
		re = nil
	}
	ch.patterns[p] = re
	return re
}
