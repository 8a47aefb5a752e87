package render

import "restohub/internal/domain"

// DefaultComponents maps every section type to its view. A test keeps it in
// step with domain.AllSectionTypes.
func DefaultComponents() map[domain.SectionType]Component {
	return map[domain.SectionType]Component{
		domain.SectionHero:           plain("HeroSection"),
		domain.SectionAbout:          plain("AboutSection"),
		domain.SectionFeaturedMenu:   featuredMenu,
		domain.SectionForYou:         forYou,
		domain.SectionPromotion:      plain("PromotionSection"),
		domain.SectionTestimonials:   plain("TestimonialsSection"),
		domain.SectionGallery:        plain("GallerySection"),
		domain.SectionLocation:       plain("LocationSection"),
		domain.SectionReservationCTA: plain("ReservationCTASection"),
	}
}

func plain(name string) Component {
	return func(sec domain.Section, _ Inputs) View {
		return View{Component: name, Props: sec.Props}
	}
}

func featuredMenu(sec domain.Section, in Inputs) View {
	items := in.MenuItems
	if len(items) > FeaturedMenuSize {
		items = items[:FeaturedMenuSize]
	}
	return View{
		Component: "FeaturedMenuSection",
		Props:     sec.Props,
		MenuItems: append([]domain.MenuItem(nil), items...),
	}
}

func forYou(sec domain.Section, in Inputs) View {
	return View{
		Component:       "ForYouSection",
		Props:           sec.Props,
		Recommendations: append([]domain.MenuItem(nil), in.Recommendations...),
	}
}
