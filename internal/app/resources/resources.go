// internal/app/resources/resources.go
package resources

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

// SharedSet is the template set name of the layout partials.
const SharedSet = "shared"

// Partials every page template includes.
var Partials = []string{"head", "foot", "flash"}

// Embed the shared layout partials.
//
//go:embed templates/*.gohtml
var FS embed.FS

var registerOnce sync.Once

// LoadSharedTemplates registers the layout partials with the template
// engine. Call it before the engine boots; repeated calls are no-ops.
func LoadSharedTemplates() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     SharedSet,
			FS:       FS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}
