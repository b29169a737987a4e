package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/specpreview/errors"
	"github.com/grovetools/specpreview/schema"
	"github.com/grovetools/specpreview/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	prefix := theme.DefaultTheme.Error.Render(theme.IconError)

	var pe *errors.PreviewError
	stderrors.As(err, &pe)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s Configuration not found: %s\n", prefix, detail(pe, "path"))

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "%s %s\n", prefix, pe.Message)
		var verr *schema.ValidationError
		if stderrors.As(err, &verr) {
			for _, p := range verr.Problems {
				fmt.Fprintf(h.Out, "  %s\n", p)
			}
		}
		fmt.Fprintf(h.Out, "Run 'specpreview config schema' to see the accepted fields.\n")

	case errors.ErrCodePortConflict:
		fmt.Fprintf(h.Out, "%s Address %s is already in use\n", prefix, detail(pe, "addr"))
		fmt.Fprintf(h.Out, "Pass --listen or set server.listen in specpreview.yml\n")

	case errors.ErrCodeEditorUnavailable:
		fmt.Fprintf(h.Out, "%s Could not connect to Neovim at %s\n", prefix, detail(pe, "addr"))
		fmt.Fprintf(h.Out, "Start Neovim with --listen or unset editor.nvim_address\n")

	case errors.ErrCodeNoWorkspace, errors.ErrCodeSpecsFolderMissing, errors.ErrCodeUnexpectedIO:
		fmt.Fprintf(h.Out, "%s %s\n", prefix, pe.Message)

	default:
		fmt.Fprintf(h.Out, "%s Error: %v\n", prefix, err)
	}

	if h.Verbose && pe != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", pe.ToJSON())
	}
	return err
}

func detail(pe *errors.PreviewError, key string) interface{} {
	if pe == nil || pe.Details == nil {
		return "?"
	}
	if v, ok := pe.Details[key]; ok {
		return v
	}
	return "?"
}
