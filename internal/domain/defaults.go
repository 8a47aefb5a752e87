package domain

// DefaultHomepage is the document every new tenant starts from.
func DefaultHomepage() HomepageConfig {
	return HomepageConfig{
		Header: Header{BrandName: "Restoran Nusantara", LogoURL: "/images/logo.png"},
		Sections: []Section{
			{ID: "hero-1", Type: SectionHero, Enabled: true, Props: HeroProps{
				Headline:        "Santapan Istimewa",
				Subheadline:     "Cita rasa autentik Nusantara, disajikan dengan sepenuh hati",
				CTAText:         "Pesan Sekarang",
				CTALink:         "/menu",
				BackgroundImage: "/images/hero.jpg",
				Alignment:       AlignCenter,
				BackgroundType:  BackgroundImage,
			}},
			{ID: "about-1", Type: SectionAbout, Enabled: true, Props: AboutProps{
				Headline: "Tentang Kami",
				Body:     "Berawal dari dapur keluarga, kami menghadirkan resep turun-temurun untuk Anda.",
				Image:    "/images/about.jpg",
			}},
			{ID: "featured-menu-1", Type: SectionFeaturedMenu, Enabled: true, Props: FeaturedMenuProps{
				Headline:    "Menu Favorit",
				Subheadline: "Hidangan yang paling banyak dipesan",
				CTAText:     "Lihat Semua Menu",
			}},
			{ID: "for-you-1", Type: SectionForYou, Enabled: true, Props: ForYouProps{
				Headline:    "Spesial Untuk Anda",
				Subheadline: "Rekomendasi berdasarkan pesanan Anda sebelumnya",
			}},
			{ID: "promotion-1", Type: SectionPromotion, Enabled: true, Props: PromotionProps{
				Headline:      "Promo Akhir Pekan",
				Description:   "Diskon untuk semua paket keluarga setiap Sabtu dan Minggu.",
				Image:         "/images/promo.jpg",
				DiscountLabel: "20%",
				CTAText:       "Ambil Promo",
			}},
			{ID: "testimonials-1", Type: SectionTestimonials, Enabled: true, Props: TestimonialsProps{
				Headline: "Kata Mereka",
				Items: []TestimonialItem{
					{ID: 1, Name: "Budi Santoso", Role: "Pelanggan Setia", Quote: "Rendangnya juara, selalu kembali ke sini!", AvatarURL: "/images/avatar-1.jpg"},
					{ID: 2, Name: "Siti Rahma", Role: "Food Blogger", Quote: "Suasana hangat dan pelayanan cepat.", AvatarURL: "/images/avatar-2.jpg"},
				},
			}},
			{ID: "gallery-1", Type: SectionGallery, Enabled: true, Props: GalleryProps{
				Headline:    "Galeri",
				Subheadline: "Intip suasana dan hidangan kami",
				Images:      []string{"/images/gallery-1.jpg", "/images/gallery-2.jpg", "/images/gallery-3.jpg"},
			}},
			{ID: "location-1", Type: SectionLocation, Enabled: true, Props: LocationProps{
				Headline:         "Lokasi Kami",
				Address:          "Jl. Sudirman No. 1, Jakarta",
				Phone:            "+62 21 555 0101",
				OpeningHours:     "10.00 - 22.00",
				Latitude:         -6.2088,
				Longitude:        106.8456,
				DeliveryRadiusKm: 10,
			}},
			{ID: "reservation-cta-1", Type: SectionReservationCTA, Enabled: true, Props: ReservationCTAProps{
				Headline:    "Reservasi Meja",
				Subheadline: "Amankan tempat Anda untuk momen spesial",
				CTAText:     "Reservasi Sekarang",
				CTALink:     "/reservations",
			}},
		},
		Footer: Footer{Copyright: "© 2024 Restoran Nusantara. Semua hak dilindungi."},
	}
}
