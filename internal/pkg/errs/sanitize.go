package errs

import (
	"fmt"
	"strings"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// sanitize renders v on a single line so error messages stay safe for log lines.
func sanitize(v any) string {
	return lineBreaks.Replace(fmt.Sprintf("%v", v))
}
