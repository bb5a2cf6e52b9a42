// Package stub renders typed client declarations for extracted methods.
package stub

import (
	"fmt"

	"github.com/rpavlik/kanboard-documentation/internal/extractor"
)

// Dialect produces the declaration lines of one target language and
// assembles them into the final artifact.
type Dialect interface {
	extractor.Declarer

	// Name identifies the dialect in configuration.
	Name() string
	// Section returns the marker lines placed before a document's
	// declarations.
	Section(key string) []string
	// Render wraps the accumulated lines into a complete source file.
	Render(lines []string) ([]byte, error)
}

// Names lists the supported dialects.
var Names = []string{"python", "go"}

// ForName returns the dialect registered under name. goPackage is only used
// by the go dialect.
func ForName(name, goPackage string) (Dialect, error) {
	switch name {
	case "", "python":
		return Python{}, nil
	case "go":
		if goPackage == "" {
			goPackage = "client"
		}
		return Go{Package: goPackage}, nil
	}
	return nil, fmt.Errorf("unknown stub dialect: %s", name)
}

const header = "Code generated by rpcdoc-gen. DO NOT EDIT."
