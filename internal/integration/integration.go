// Package integration renders the shell snippet printed by `dirtree --init`.
package integration

import (
	"bytes"
	_ "embed"
	"fmt"
	"os/exec"
	"path/filepath"
	"text/template"
)

// dtcd is the zsh source of the dtcd directory picker.
//
//go:embed dtcd.zsh
var dtcd string

// picker holds the values substituted into the dtcd template.
type picker struct {
	// Shell is the zsh binary fzf runs the preview command with.
	Shell string
}

// Picker returns the dtcd function, bound to the zsh found in PATH.
func Picker() (string, error) {
	zsh, err := exec.LookPath("zsh")
	if err != nil {
		return "", fmt.Errorf("locating zsh: %w", err)
	}

	return renderPicker(picker{Shell: filepath.ToSlash(zsh)})
}

func renderPicker(data picker) (string, error) {
	tmpl, err := template.New("dtcd").Option("missingkey=error").Parse(dtcd)
	if err != nil {
		return "", fmt.Errorf("parsing dtcd template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering dtcd template: %w", err)
	}

	return buf.String(), nil
}
