package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restohub/internal/domain"
	"restohub/internal/render"
)

func keys(views []render.View) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Key)
	}
	return out
}

func mixedDoc() []domain.Section {
	return []domain.Section{
		{ID: "hero-1", Type: domain.SectionHero, Enabled: true, Props: domain.HeroProps{Headline: "Santapan Istimewa"}},
		{ID: "for-you-1", Type: domain.SectionForYou, Enabled: true, Props: domain.ForYouProps{Headline: "Untuk Anda"}},
		{ID: "gallery-1", Type: domain.SectionGallery, Enabled: false, Props: domain.GalleryProps{}},
	}
}

var item1 = domain.MenuItem{ID: "m1", Name: "Nasi Goreng", Price: 35000}

func TestRender_AnonymousWithoutRecommendations(t *testing.T) {
	r := render.New(nil)
	views := r.Render(mixedDoc(), render.Inputs{})
	assert.Equal(t, []string{"hero-1"}, keys(views))
}

func TestRender_AuthenticatedWithRecommendations(t *testing.T) {
	r := render.New(nil)
	views := r.Render(mixedDoc(), render.Inputs{
		Recommendations: []domain.MenuItem{item1},
		Viewer:          domain.Viewer{UserID: "u1", Authenticated: true},
	})
	require.Equal(t, []string{"hero-1", "for-you-1"}, keys(views))
	assert.Equal(t, "ForYouSection", views[1].Component)
	assert.Equal(t, []domain.MenuItem{item1}, views[1].Recommendations)
}

func TestRender_ForYouFiltering(t *testing.T) {
	r := render.New(nil)
	forYou := []domain.Section{{ID: "fy", Type: domain.SectionForYou, Enabled: true, Props: domain.ForYouProps{}}}

	cases := []struct {
		name string
		in   render.Inputs
		want int
	}{
		{"anonymous with recommendations", render.Inputs{Recommendations: []domain.MenuItem{item1}}, 0},
		{"signed in without recommendations", render.Inputs{Viewer: domain.Viewer{Authenticated: true}}, 0},
		{"signed in with recommendations", render.Inputs{Recommendations: []domain.MenuItem{item1}, Viewer: domain.Viewer{Authenticated: true}}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, r.Render(forYou, tc.in), tc.want)
		})
	}

	// disabled still wins when personalisation is available
	forYou[0].Enabled = false
	assert.Empty(t, r.Render(forYou, cases[2].in))
}

func TestRender_EnabledIsNecessaryAndSufficientForOtherTypes(t *testing.T) {
	r := render.New(nil)
	for _, sec := range domain.DefaultHomepage().Sections {
		if sec.Type == domain.SectionForYou {
			continue
		}
		sec.Enabled = true
		assert.Len(t, r.Render([]domain.Section{sec}, render.Inputs{}), 1, sec.Type)
		sec.Enabled = false
		assert.Empty(t, r.Render([]domain.Section{sec}, render.Inputs{}), sec.Type)
	}
}

func TestRender_PreservesDocumentOrder(t *testing.T) {
	doc := domain.DefaultHomepage()
	doc.Sections[2].Enabled = false // featured-menu
	doc.Sections[6].Enabled = false // gallery

	views := render.New(nil).Render(doc.Sections, render.Inputs{
		Recommendations: []domain.MenuItem{item1},
		Viewer:          domain.Viewer{Authenticated: true},
	})
	assert.Equal(t, []string{
		"hero-1", "about-1", "for-you-1", "promotion-1", "testimonials-1", "location-1", "reservation-cta-1",
	}, keys(views))
}

func TestRender_FeaturedMenuGetsFirstThreeItems(t *testing.T) {
	menu := []domain.MenuItem{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}}
	sec := domain.Section{ID: "fm", Type: domain.SectionFeaturedMenu, Enabled: true, Props: domain.FeaturedMenuProps{Headline: "Favorit"}}

	views := render.New(nil).Render([]domain.Section{sec}, render.Inputs{MenuItems: menu})
	require.Len(t, views, 1)
	assert.Equal(t, menu[:3], views[0].MenuItems)
	assert.Equal(t, domain.FeaturedMenuProps{Headline: "Favorit"}, views[0].Props)

	short := render.New(nil).Render([]domain.Section{sec}, render.Inputs{MenuItems: menu[:1]})
	assert.Len(t, short[0].MenuItems, 1)
}

func TestRender_MissingComponentIsSkippedNotFatal(t *testing.T) {
	components := render.DefaultComponents()
	delete(components, domain.SectionGallery)

	doc := domain.DefaultHomepage()
	views := render.New(components).Render(doc.Sections, render.Inputs{})
	assert.NotContains(t, keys(views), "gallery-1")
	assert.Contains(t, keys(views), "location-1")
}

func TestDefaultComponents_CoverEveryType(t *testing.T) {
	components := render.DefaultComponents()
	for _, st := range domain.AllSectionTypes {
		_, ok := components[st]
		assert.True(t, ok, "no component for %s", st)
	}
	assert.Len(t, components, len(domain.AllSectionTypes))
}

func TestRenderPage_PlaceholdersUntilResolved(t *testing.T) {
	r := render.New(nil)
	cfg := domain.DefaultHomepage()
	menu := []domain.MenuItem{item1}
	var recs []domain.MenuItem

	partial := []render.PageInputs{
		{},
		{Config: &cfg},
		{Config: &cfg, MenuItems: &menu},
		{MenuItems: &menu, Recommendations: &recs},
	}
	for _, in := range partial {
		page := r.RenderPage(in)
		assert.True(t, page.Loading)
		require.Len(t, page.Views, render.PlaceholderCount)
		assert.Equal(t, render.Placeholders(), page.Views)
	}

	page := r.RenderPage(render.PageInputs{Config: &cfg, MenuItems: &menu, Recommendations: &recs})
	assert.False(t, page.Loading)
	assert.Equal(t, cfg.Header, page.Header)
	assert.NotContains(t, keys(page.Views), "for-you-1")
}

func TestTree_KeepsStateAcrossUnrelatedEdit(t *testing.T) {
	r := render.New(nil)
	tree := render.NewTree()
	cfg := domain.DefaultHomepage()

	tree.Reconcile(r.Render(cfg.Sections, render.Inputs{}))
	gallery, ok := tree.Node("gallery-1")
	require.True(t, ok)
	gallery.State["slide"] = 2
	testimonials, _ := tree.Node("testimonials-1")
	testimonials.State["slide"] = 1

	// footer edit, then toggling an unrelated section off
	c := "© baru"
	cfg = cfg.WithFooter(domain.FooterPatch{Copyright: &c})
	cfg.Sections[1].Enabled = false
	tree.Reconcile(r.Render(cfg.Sections, render.Inputs{}))

	again, ok := tree.Node("gallery-1")
	require.True(t, ok)
	assert.Same(t, gallery, again)
	assert.Equal(t, 2, again.State["slide"])
	tm, _ := tree.Node("testimonials-1")
	assert.Equal(t, 1, tm.State["slide"])

	_, mounted := tree.Node("about-1")
	assert.False(t, mounted)
	assert.NotContains(t, tree.Keys(), "about-1")
}
