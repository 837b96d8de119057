package organizer

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/organizer/core"
)

var (
	noSlashTag  = "noslash"
	noSlashText = "'/' and '\\' are not allowed"

	notReservedTag  = "notreserved"
	notReservedText = "this name is reserved"

	descLineMaxLen = 40
	descFormatTag  = "descformat"
	descFormatText = fmt.Sprintf("each line must be of the form 'key:value' with exactly one ':' and at most %d characters", descLineMaxLen)

	hexColorTag  = "hexcolor"
	hexColorText = "enter a valid color"

	datetimeTag  = "datetime"
	datetimeText = "enter a valid date (YYYY-MM-DD)"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(noSlashTag, noSlashValidation)
	core.RegisterCustomTranslation(validate, translator, noSlashTag, noSlashText)

	_ = validate.RegisterValidation(notReservedTag, notReservedValidation)
	core.RegisterCustomTranslation(validate, translator, notReservedTag, notReservedText)

	_ = validate.RegisterValidation(descFormatTag, descFormatValidation)
	core.RegisterCustomTranslation(validate, translator, descFormatTag, descFormatText)

	core.RegisterCustomTranslation(validate, translator, hexColorTag, hexColorText, true)
	core.RegisterCustomTranslation(validate, translator, datetimeTag, datetimeText, true)
}

func noSlashValidation(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), `/\`)
}

func notReservedValidation(fl validator.FieldLevel) bool {
	return !core.IsReservedScopeName(fl.Field().String())
}

func descFormatValidation(fl validator.FieldLevel) bool {
	return ValidDescription(fl.Field().String())
}

// ValidDescription reports whether every non-empty line of text is a single `key:value` pair
// short enough to be rendered by TextToHTML.
func ValidDescription(text string) bool {
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		if line == "" {
			continue
		}
		if strings.Count(line, ":") != 1 || len([]rune(line)) > descLineMaxLen {
			return false
		}
	}
	return true
}
