// Package render turns a homepage document plus already-resolved data into
// the ordered list of views a page shell draws.
package render

import (
	"github.com/rs/zerolog/log"

	"restohub/internal/adapters/observability"
	"restohub/internal/domain"
)

// FeaturedMenuSize is how many menu items the featured-menu section shows.
const FeaturedMenuSize = 3

// PlaceholderCount is the fixed number of blocks shown while inputs load.
const PlaceholderCount = 4

// Inputs is everything a render needs besides the sections. Nothing here is fetched by the renderer.
type Inputs struct {
	MenuItems       []domain.MenuItem
	Recommendations []domain.MenuItem
	Viewer          domain.Viewer
}

// View is one rendered section. Key is the section id and never its position.
type View struct {
	Key             string              `json:"key"`
	Type            domain.SectionType  `json:"type"`
	Component       string              `json:"component"`
	Props           domain.SectionProps `json:"props,omitempty"`
	MenuItems       []domain.MenuItem   `json:"menuItems,omitempty"`
	Recommendations []domain.MenuItem   `json:"recommendations,omitempty"`
	Placeholder     bool                `json:"placeholder,omitempty"`
}

// Component builds the view of one section.
type Component func(sec domain.Section, in Inputs) View

type Renderer struct {
	components map[domain.SectionType]Component
}

// New uses DefaultComponents when none are given.
func New(components map[domain.SectionType]Component) *Renderer {
	if components == nil {
		components = DefaultComponents()
	}
	return &Renderer{components: components}
}

// Render filters and dispatches sections in document order.
func (r *Renderer) Render(sections []domain.Section, in Inputs) []View {
	out := make([]View, 0, len(sections))
	for _, sec := range sections {
		if sec.Type == domain.SectionForYou && (!in.Viewer.Authenticated || len(in.Recommendations) == 0) {
			observability.ObserveSkippedSection(string(sec.Type), "personalisation_unavailable")
			continue
		}
		if !sec.Enabled {
			observability.ObserveSkippedSection(string(sec.Type), "disabled")
			continue
		}
		build, ok := r.components[sec.Type]
		if !ok {
			// deployment defect, not a user error: keep rendering the rest
			log.Error().
				Err(domain.ErrConfigurationShapeMismatch).
				Str("section", sec.ID).
				Str("type", string(sec.Type)).
				Msg("no component registered for section type")
			observability.ObserveSkippedSection(string(sec.Type), "no_component")
			continue
		}
		v := build(sec, in)
		v.Key = sec.ID
		v.Type = sec.Type
		out = append(out, v)
	}
	return out
}

// Placeholders is the deterministic loading output.
func Placeholders() []View {
	out := make([]View, PlaceholderCount)
	for i := range out {
		out[i] = View{Key: placeholderKeys[i], Component: "BlockPlaceholder", Placeholder: true}
	}
	return out
}

var placeholderKeys = [PlaceholderCount]string{"placeholder-0", "placeholder-1", "placeholder-2", "placeholder-3"}

// Page is the output handed to the page shell.
type Page struct {
	Loading bool          `json:"loading"`
	Header  domain.Header `json:"header"`
	Views   []View        `json:"views"`
	Footer  domain.Footer `json:"footer"`
}

// PageInputs carries each input with nil meaning "not resolved yet".
type PageInputs struct {
	Config          *domain.HomepageConfig
	MenuItems       *[]domain.MenuItem
	Recommendations *[]domain.MenuItem
	Viewer          domain.Viewer
}

// RenderPage renders placeholders until every input is resolved, so data
// arriving piecemeal never produces a partial page.
func (r *Renderer) RenderPage(in PageInputs) Page {
	if in.Config == nil || in.MenuItems == nil || in.Recommendations == nil {
		return Page{Loading: true, Views: Placeholders()}
	}
	return Page{
		Header: in.Config.Header,
		Views: r.Render(in.Config.Sections, Inputs{
			MenuItems:       *in.MenuItems,
			Recommendations: *in.Recommendations,
			Viewer:          in.Viewer,
		}),
		Footer: in.Config.Footer,
	}
}
