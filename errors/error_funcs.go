package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	log "github.com/cloudposse/tierconf/pkg/logger"
)

// OsExit is a variable for testing, so we can mock os.Exit.
var OsExit = os.Exit

// Format renders an error with its hints and, in verbose mode, its safe context.
func Format(err error, verbose bool) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(err.Error())

	hints := errors.GetAllHints(err)
	if len(hints) > 0 {
		sb.WriteString("\n\nHints:")
		for _, hint := range hints {
			sb.WriteString("\n  - ")
			sb.WriteString(hint)
		}
	}

	if verbose {
		details := errors.GetSafeDetails(err)
		if len(details.SafeDetails) > 0 {
			sb.WriteString("\n\nContext:")
			for _, detail := range details.SafeDetails {
				sb.WriteString("\n  ")
				sb.WriteString(detail)
			}
		}
	}

	return sb.String()
}

// PrintError writes a titled, formatted error to w.
func PrintError(w io.Writer, err error, title string) {
	if err == nil {
		return
	}
	if title == "" {
		title = "error"
	}
	title = cases.Title(language.English).String(title)

	if _, printErr := fmt.Fprintf(w, "\n%s: %s\n\n", title, Format(err, false)); printErr != nil {
		log.Error(printErr)
		log.Error(err)
	}
}

// CheckErrorAndPrint prints an error message to stderr.
func CheckErrorAndPrint(err error, title string) {
	if err == nil {
		return
	}
	log.Debug("Command failed", "error", Format(err, true))
	PrintError(os.Stderr, err, title)
}

// CheckErrorPrintAndExit prints an error message and exits with the error's exit code.
func CheckErrorPrintAndExit(err error, title string) {
	if err == nil {
		return
	}

	CheckErrorAndPrint(err, title)

	// revive:disable-next-line:deep-exit
	Exit(GetExitCode(err))
}

// Exit exits the program with the specified exit code.
func Exit(exitCode int) {
	OsExit(exitCode)
}
