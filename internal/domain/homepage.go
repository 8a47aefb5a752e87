package domain

import (
	"encoding/json"
	"fmt"
)

// HomepageConfig is the single homepage document of a tenant.
type HomepageConfig struct {
	Version  int64     `json:"version"`
	Header   Header    `json:"header"`
	Sections []Section `json:"sections"` // display order
	Footer   Footer    `json:"footer"`
}

type Header struct {
	BrandName string `json:"brandName"`
	LogoURL   string `json:"logoUrl"`
}

type Footer struct {
	Copyright string `json:"copyright"`
}

// HeaderPatch carries only the header fields an editor changed.
type HeaderPatch struct {
	BrandName *string `json:"brandName,omitempty"`
	LogoURL   *string `json:"logoUrl,omitempty"`
}

type FooterPatch struct {
	Copyright *string `json:"copyright,omitempty"`
}

func (h Header) Apply(p HeaderPatch) Header {
	if p.BrandName != nil {
		h.BrandName = *p.BrandName
	}
	if p.LogoURL != nil {
		h.LogoURL = *p.LogoURL
	}
	return h
}

func (f Footer) Apply(p FooterPatch) Footer {
	if p.Copyright != nil {
		f.Copyright = *p.Copyright
	}
	return f
}

// Clone returns a copy sharing no memory with c.
func (c HomepageConfig) Clone() HomepageConfig {
	out := c
	if c.Sections != nil {
		out.Sections = make([]Section, len(c.Sections))
		for i, s := range c.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	return out
}

// SectionIndex returns the position of the section with id, or -1.
func (c HomepageConfig) SectionIndex(id string) int {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (c HomepageConfig) Section(id string) (Section, bool) {
	if i := c.SectionIndex(id); i >= 0 {
		return c.Sections[i], true
	}
	return Section{}, false
}

// Validate checks ids are present and unique and every props value matches its type.
func (c HomepageConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Sections))
	for i, s := range c.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section %d has no id", ErrInvalidConfig, i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate section id %q", ErrInvalidConfig, s.ID)
		}
		seen[s.ID] = struct{}{}
		if _, ok := propsDecoders[s.Type]; !ok {
			return fmt.Errorf("%w: unknown section type %q", ErrConfigurationShapeMismatch, s.Type)
		}
		if s.Props == nil || s.Props.SectionType() != s.Type {
			return fmt.Errorf("%w: section %q props do not match type %q", ErrConfigurationShapeMismatch, s.ID, s.Type)
		}
	}
	return nil
}

/********** pure edits (each returns a new document, the receiver is untouched) **********/

func (c HomepageConfig) WithSectionPatch(id string, patch json.RawMessage) (HomepageConfig, error) {
	i := c.SectionIndex(id)
	if i < 0 {
		return HomepageConfig{}, fmt.Errorf("%w: %q", ErrInvalidSectionReference, id)
	}
	props, err := MergeProps(c.Sections[i].Props, patch)
	if err != nil {
		return HomepageConfig{}, fmt.Errorf("section %q: %w", id, err)
	}
	out := c.Clone()
	out.Sections[i].Props = props
	return out, nil
}

// WithSectionProps replaces one section's props by applying fn to a copy of them.
func (c HomepageConfig) WithSectionProps(id string, fn func(SectionProps) (SectionProps, error)) (HomepageConfig, error) {
	i := c.SectionIndex(id)
	if i < 0 {
		return HomepageConfig{}, fmt.Errorf("%w: %q", ErrInvalidSectionReference, id)
	}
	out := c.Clone()
	props, err := fn(out.Sections[i].Props)
	if err != nil {
		return HomepageConfig{}, fmt.Errorf("section %q: %w", id, err)
	}
	if props == nil || props.SectionType() != out.Sections[i].Type {
		return HomepageConfig{}, fmt.Errorf("%w: section %q", ErrConfigurationShapeMismatch, id)
	}
	out.Sections[i].Props = props
	return out, nil
}

func (c HomepageConfig) WithHeader(p HeaderPatch) HomepageConfig {
	out := c.Clone()
	out.Header = out.Header.Apply(p)
	return out
}

func (c HomepageConfig) WithFooter(p FooterPatch) HomepageConfig {
	out := c.Clone()
	out.Footer = out.Footer.Apply(p)
	return out
}
