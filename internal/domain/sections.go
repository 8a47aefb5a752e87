package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type SectionType string

const (
	SectionHero           SectionType = "hero"
	SectionAbout          SectionType = "about"
	SectionFeaturedMenu   SectionType = "featured-menu"
	SectionForYou         SectionType = "for-you"
	SectionPromotion      SectionType = "promotion"
	SectionTestimonials   SectionType = "testimonials"
	SectionGallery        SectionType = "gallery"
	SectionLocation       SectionType = "location"
	SectionReservationCTA SectionType = "reservation-cta"
)

// AllSectionTypes is the closed set of section types, in no particular order.
var AllSectionTypes = []SectionType{
	SectionHero, SectionAbout, SectionFeaturedMenu, SectionForYou, SectionPromotion,
	SectionTestimonials, SectionGallery, SectionLocation, SectionReservationCTA,
}

// SectionProps is implemented only by the props structs in this file.
type SectionProps interface {
	SectionType() SectionType
	cloneProps() SectionProps
}

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type BackgroundType string

const (
	BackgroundImage    BackgroundType = "image"
	BackgroundColor    BackgroundType = "color"
	BackgroundGradient BackgroundType = "gradient"
)

type HeroProps struct {
	Headline        string         `json:"headline"`
	Subheadline     string         `json:"subheadline"`
	CTAText         string         `json:"ctaText"`
	CTALink         string         `json:"ctaLink"`
	BackgroundImage string         `json:"backgroundImage"`
	Alignment       Alignment      `json:"alignment"`
	BackgroundType  BackgroundType `json:"backgroundType"`
}

type AboutProps struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	Image    string `json:"image"`
}

type FeaturedMenuProps struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"ctaText"`
}

type ForYouProps struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
}

type PromotionProps struct {
	Headline      string `json:"headline"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	DiscountLabel string `json:"discountLabel"`
	CTAText       string `json:"ctaText"`
	ValidUntil    string `json:"validUntil"`
}

// TestimonialItem ids are only unique within one testimonials section.
type TestimonialItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Quote     string `json:"quote"`
	AvatarURL string `json:"avatarUrl"`
}

type TestimonialsProps struct {
	Headline string            `json:"headline"`
	Items    []TestimonialItem `json:"items"`
}

type GalleryProps struct {
	Headline    string   `json:"headline"`
	Subheadline string   `json:"subheadline"`
	Images      []string `json:"images"`
}

type LocationProps struct {
	Headline         string  `json:"headline"`
	Address          string  `json:"address"`
	Phone            string  `json:"phone"`
	OpeningHours     string  `json:"openingHours"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	DeliveryRadiusKm float64 `json:"deliveryRadiusKm"`
}

type ReservationCTAProps struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"ctaText"`
	CTALink     string `json:"ctaLink"`
}

func (HeroProps) SectionType() SectionType           { return SectionHero }
func (AboutProps) SectionType() SectionType          { return SectionAbout }
func (FeaturedMenuProps) SectionType() SectionType   { return SectionFeaturedMenu }
func (ForYouProps) SectionType() SectionType         { return SectionForYou }
func (PromotionProps) SectionType() SectionType      { return SectionPromotion }
func (TestimonialsProps) SectionType() SectionType   { return SectionTestimonials }
func (GalleryProps) SectionType() SectionType        { return SectionGallery }
func (LocationProps) SectionType() SectionType       { return SectionLocation }
func (ReservationCTAProps) SectionType() SectionType { return SectionReservationCTA }

func (p HeroProps) cloneProps() SectionProps           { return p }
func (p AboutProps) cloneProps() SectionProps          { return p }
func (p FeaturedMenuProps) cloneProps() SectionProps   { return p }
func (p ForYouProps) cloneProps() SectionProps         { return p }
func (p PromotionProps) cloneProps() SectionProps      { return p }
func (p LocationProps) cloneProps() SectionProps       { return p }
func (p ReservationCTAProps) cloneProps() SectionProps { return p }

func (p TestimonialsProps) cloneProps() SectionProps {
	if p.Items != nil {
		p.Items = append([]TestimonialItem(nil), p.Items...)
	}
	return p
}

func (p GalleryProps) cloneProps() SectionProps {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}

// NextTestimonialID returns an id one above the largest in use.
func (p TestimonialsProps) NextTestimonialID() int64 {
	var max int64
	for _, it := range p.Items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

/********** decoding **********/

type propsDecoder func(base SectionProps, raw []byte, strict bool) (SectionProps, error)

// one entry per section type; a type missing here cannot be decoded or patched
var propsDecoders = map[SectionType]propsDecoder{
	SectionHero:           decodeAs[HeroProps],
	SectionAbout:          decodeAs[AboutProps],
	SectionFeaturedMenu:   decodeAs[FeaturedMenuProps],
	SectionForYou:         decodeAs[ForYouProps],
	SectionPromotion:      decodeAs[PromotionProps],
	SectionTestimonials:   decodeAs[TestimonialsProps],
	SectionGallery:        decodeAs[GalleryProps],
	SectionLocation:       decodeAs[LocationProps],
	SectionReservationCTA: decodeAs[ReservationCTAProps],
}

// decodeAs decodes raw over a copy of base, so fields absent from raw keep base's values.
func decodeAs[P SectionProps](base SectionProps, raw []byte, strict bool) (SectionProps, error) {
	var p P
	if b, ok := base.(P); ok {
		p = b.cloneProps().(P)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeProps builds the props value for t from its JSON form. Fields that
// belong to another type are a shape mismatch, not silently dropped.
func DecodeProps(t SectionType, raw []byte) (SectionProps, error) {
	dec, ok := propsDecoders[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown section type %q", ErrConfigurationShapeMismatch, t)
	}
	p, err := dec(nil, raw, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s props: %v", ErrConfigurationShapeMismatch, t, err)
	}
	return p, nil
}

// MergeProps shallow-merges a JSON patch into props. Fields foreign to the
// props type are rejected.
func MergeProps(base SectionProps, patch json.RawMessage) (SectionProps, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: section has no props", ErrConfigurationShapeMismatch)
	}
	dec, ok := propsDecoders[base.SectionType()]
	if !ok {
		return nil, fmt.Errorf("%w: unknown section type %q", ErrConfigurationShapeMismatch, base.SectionType())
	}
	p, err := dec(base, patch, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return p, nil
}

/********** section **********/

type Section struct {
	ID      string       `json:"id"`
	Type    SectionType  `json:"type"`
	Enabled bool         `json:"enabled"`
	Props   SectionProps `json:"props"`
}

type sectionJSON struct {
	ID      string          `json:"id"`
	Type    SectionType     `json:"type"`
	Enabled bool            `json:"enabled"`
	Props   json.RawMessage `json:"props"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	if s.Props == nil || s.Props.SectionType() != s.Type {
		return nil, fmt.Errorf("%w: section %q props do not match type %q", ErrConfigurationShapeMismatch, s.ID, s.Type)
	}
	props, err := json.Marshal(s.Props)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionJSON{ID: s.ID, Type: s.Type, Enabled: s.Enabled, Props: props})
}

func (s *Section) UnmarshalJSON(b []byte) error {
	var w sectionJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	p, err := DecodeProps(w.Type, w.Props)
	if err != nil {
		return err
	}
	*s = Section{ID: w.ID, Type: w.Type, Enabled: w.Enabled, Props: p}
	return nil
}

func (s Section) Clone() Section {
	if s.Props != nil {
		s.Props = s.Props.cloneProps()
	}
	return s
}
