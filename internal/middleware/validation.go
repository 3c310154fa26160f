package middleware

import (
	"sync"

	"github.com/gin-gonic/gin/binding"

	"github.com/jwalitptl/appointment-booking/pkg/validator"
)

var installValidator sync.Once

// InstallValidator makes gin's request binding use the application
// validator, which knows the "slot" tag and names fields by their json tag.
func InstallValidator() {
	installValidator.Do(func() {
		binding.Validator = validator.NewBindingValidator()
	})
}
