package adapter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/menna-app/menna-go/internal/constants"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/locale"
	"github.com/menna-app/menna-go/internal/util"
)

// Unicode embedding marks that force right-to-left rendering of a line in
// terminals that do not run the bidi algorithm on their own.
const (
	rtlEmbedding      = "\u202B"
	popDirectionalFmt = "\u202C"
)

// ResponseFormatter renders views in the active locale and direction.
type ResponseFormatter struct {
	lc      *locale.Context
	catalog *domain.Catalog
}

func NewResponseFormatter(lc *locale.Context, catalog *domain.Catalog) *ResponseFormatter {
	return &ResponseFormatter{lc: lc, catalog: catalog}
}

type providerItemView struct {
	Name         string
	Verified     bool
	Rating       string
	RatingCount  int
	City         string
	Categories   string
	Areas        string
	Languages    string
	Bio          string
	Pricing      string
	Availability string
}

type providerListView struct {
	Title string
	Items []providerItemView
}

type providerDetailView struct {
	providerItemView
	VerifiedLabel string
	RatingLabel   string
	WhatsAppURL   string
	CallURL       string
	Labels        locale.LabelStrings
	CTAs          locale.CTAStrings
}

type leadView struct {
	Description   string
	City          string
	Category      string
	Areas         string
	PreferredTime string
}

type dashboardView struct {
	Title  string
	Leads  []leadView
	Labels locale.LabelStrings
}

type catalogEntryView struct {
	ID    int64
	Name  string
	Areas string
}

type catalogView struct {
	Title      string
	Labels     locale.LabelStrings
	Categories []catalogEntryView
	Cities     []catalogEntryView
}

type helpEntry struct {
	Usage       string
	Description string
}

type helpView struct {
	Tagline string
	Entries []helpEntry
}

type homeView struct {
	Strings *locale.Strings
	List    string
}

// FormatHome renders the landing view with the given highlight providers.
func (f *ResponseFormatter) FormatHome(providers []*domain.Provider) string {
	st := f.lc.Snapshot()
	view := homeView{Strings: st.Strings}
	if len(providers) > 0 {
		list, err := executeFormatterTemplate("provider_list", f.providerList(st, providers))
		if err != nil {
			return f.FormatError(err.Error())
		}
		view.List = list
	}
	return f.render(st, "home", view)
}

// FormatProviderList renders the listing view.
func (f *ResponseFormatter) FormatProviderList(providers []*domain.Provider) string {
	st := f.lc.Snapshot()
	if len(providers) == 0 {
		return f.directional(st, "📭 "+st.Strings.Messages.NoProviders)
	}
	return f.render(st, "provider_list", f.providerList(st, providers))
}

// FormatProvider renders the profile view.
func (f *ResponseFormatter) FormatProvider(p *domain.Provider) string {
	st := f.lc.Snapshot()
	if p == nil {
		return f.directional(st, "❌ "+st.Strings.Messages.NotFound)
	}

	view := providerDetailView{
		providerItemView: f.providerItem(st, p),
		VerifiedLabel:    st.Strings.Labels.Verified,
		RatingLabel:      st.Strings.Rating,
		Labels:           st.Strings.Labels,
		CTAs:             st.Strings.CTAs,
	}
	if p.WhatsApp != nil && *p.WhatsApp != "" {
		view.WhatsAppURL = p.WhatsAppURL()
	}
	if p.Phone != nil && *p.Phone != "" {
		view.CallURL = p.CallURL()
	}
	return f.render(st, "provider_detail", view)
}

// FormatProviderNotFound reports a missing provider id.
func (f *ResponseFormatter) FormatProviderNotFound(id int64) string {
	st := f.lc.Snapshot()
	return f.directional(st, fmt.Sprintf("❌ %s (#%d)", st.Strings.Messages.NotFound, id))
}

func (f *ResponseFormatter) FormatLeadSubmitted(created *domain.LeadCreated) string {
	st := f.lc.Snapshot()
	msg := "✅ " + st.Strings.Messages.LeadSent
	if created != nil && created.ID > 0 {
		msg += fmt.Sprintf(" (#%d)", created.ID)
	}
	return f.directional(st, msg)
}

func (f *ResponseFormatter) FormatLeadFailed() string {
	st := f.lc.Snapshot()
	return f.directional(st, "❌ "+st.Strings.Messages.LeadFailed)
}

func (f *ResponseFormatter) FormatReviewSubmitted(created *domain.ReviewCreated) string {
	st := f.lc.Snapshot()
	msg := "✅ " + st.Strings.Messages.ReviewSent
	if created != nil && created.ID != nil {
		msg += fmt.Sprintf(" (#%d)", *created.ID)
	}
	return f.directional(st, msg)
}

func (f *ResponseFormatter) FormatReviewFailed() string {
	st := f.lc.Snapshot()
	return f.directional(st, "❌ "+st.Strings.Messages.ReviewFailed)
}

// FormatLoginResult shows one fixed message for success and one for any failure.
func (f *ResponseFormatter) FormatLoginResult(ok bool) string {
	st := f.lc.Snapshot()
	if ok {
		return f.directional(st, "🔓 "+st.Strings.Messages.LoginSuccess)
	}
	return f.directional(st, "🔒 "+st.Strings.Messages.LoginFailed)
}

// FormatDashboard renders the provider inbox.
func (f *ResponseFormatter) FormatDashboard(leads []*domain.LeadRequest) string {
	st := f.lc.Snapshot()
	if len(leads) == 0 {
		return f.directional(st, "🗂 "+st.Strings.Nav.Dashboard+"\n"+st.Strings.Messages.EmptyInbox)
	}

	view := dashboardView{
		Title:  st.Strings.Nav.Dashboard,
		Labels: st.Strings.Labels,
		Leads:  make([]leadView, 0, len(leads)),
	}
	for _, lead := range leads {
		if lead == nil {
			continue
		}
		lv := leadView{
			Description: util.TruncateString(lead.Description, constants.StringLimits.Description),
			City:        f.catalog.CityName(lead.CityID, st.Locale),
			Category:    f.catalog.CategoryName(lead.CategoryID, st.Locale),
			Areas:       f.areaNames(st, lead.AreaIDs),
		}
		if lead.PreferredTime != nil {
			lv.PreferredTime = *lead.PreferredTime
		}
		view.Leads = append(view.Leads, lv)
	}
	return f.render(st, "dashboard", view)
}

// FormatCatalog lists categories and cities with their ids, for use in filters
// and request forms.
func (f *ResponseFormatter) FormatCatalog() string {
	st := f.lc.Snapshot()
	view := catalogView{
		Title:  st.Strings.Labels.Catalog,
		Labels: st.Strings.Labels,
	}
	for _, cat := range f.catalog.Categories {
		view.Categories = append(view.Categories, catalogEntryView{ID: cat.ID, Name: cat.Name.In(st.Locale)})
	}
	for _, city := range f.catalog.Cities {
		areas := make([]string, 0, len(city.Areas))
		for _, a := range city.Areas {
			areas = append(areas, fmt.Sprintf("%d %s", a.ID, a.Name.In(st.Locale)))
		}
		view.Cities = append(view.Cities, catalogEntryView{
			ID:    city.ID,
			Name:  city.Name.In(st.Locale),
			Areas: strings.Join(areas, ", "),
		})
	}
	return f.render(st, "catalog", view)
}

// FormatHelp lists the shell commands. Command words stay in English so they
// can be typed on any keyboard; descriptions follow the locale.
func (f *ResponseFormatter) FormatHelp() string {
	st := f.lc.Snapshot()
	s := st.Strings
	view := helpView{
		Tagline: s.Tagline,
		Entries: []helpEntry{
			{Usage: "home", Description: s.Nav.Home},
			{Usage: "providers [verified] [category=ID] [city=ID] [areas=1,2] [lang=ar] [sort=rating]", Description: s.Nav.Providers},
			{Usage: "provider ID [ID...]", Description: s.CTAs.View},
			{Usage: "request category=ID city=ID areas=1,2 description=\"...\" [time=...]", Description: s.Nav.Request},
			{Usage: "review lead=ID provider=ID rating=1-5 [comment=\"...\"]", Description: s.Rating},
			{Usage: "login EMAIL PASSWORD", Description: s.Nav.Login},
			{Usage: "dashboard", Description: s.Nav.Dashboard},
			{Usage: "catalog", Description: s.Labels.Catalog},
			{Usage: "lang ar|he|en", Description: s.Messages.LocaleChanged},
		},
	}
	return f.render(st, "help", view)
}

func (f *ResponseFormatter) FormatLocaleChanged() string {
	st := f.lc.Snapshot()
	return f.directional(st, fmt.Sprintf("🌐 %s: %s (%s)", st.Strings.Messages.LocaleChanged, st.Locale, st.Direction))
}

func (f *ResponseFormatter) FormatUnknownCommand(command string) string {
	st := f.lc.Snapshot()
	msg := "❓ " + st.Strings.Messages.UnknownCommand
	if command != "" {
		msg += ": " + command
	}
	return f.directional(st, msg)
}

func (f *ResponseFormatter) FormatInvalidInput(detail string) string {
	st := f.lc.Snapshot()
	msg := "⚠️ " + st.Strings.Messages.InvalidInput
	if detail != "" {
		msg += ": " + detail
	}
	return f.directional(st, msg)
}

func (f *ResponseFormatter) FormatLoadFailed() string {
	st := f.lc.Snapshot()
	return f.directional(st, "❌ "+st.Strings.Messages.LoadFailed)
}

func (f *ResponseFormatter) FormatError(message string) string {
	return f.directional(f.lc.Snapshot(), fmt.Sprintf("❌ %s", message))
}

// Helper methods

func (f *ResponseFormatter) render(st locale.State, name string, data any) string {
	out, err := executeFormatterTemplate(name, data)
	if err != nil {
		return f.directional(st, fmt.Sprintf("❌ %s", err.Error()))
	}
	return f.directional(st, out)
}

// directional wraps each non-empty line in RTL embedding marks when the
// locale is right to left.
func (f *ResponseFormatter) directional(st locale.State, text string) string {
	if st.Direction != domain.DirectionRTL {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = rtlEmbedding + line + popDirectionalFmt
	}
	return strings.Join(lines, "\n")
}

func (f *ResponseFormatter) providerList(st locale.State, providers []*domain.Provider) providerListView {
	view := providerListView{
		Title: st.Strings.Nav.Providers,
		Items: make([]providerItemView, 0, len(providers)),
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		view.Items = append(view.Items, f.providerItem(st, p))
	}
	return view
}

func (f *ResponseFormatter) providerItem(st locale.State, p *domain.Provider) providerItemView {
	categories := make([]string, 0, len(p.Categories))
	for _, id := range p.Categories {
		categories = append(categories, f.catalog.CategoryName(id, st.Locale))
	}

	item := providerItemView{
		Name:        p.Name,
		Verified:    p.Verified,
		Rating:      formatRating(p.Rating),
		RatingCount: p.RatingCount,
		City:        f.catalog.CityName(p.CityID, st.Locale),
		Categories:  strings.Join(categories, ", "),
		Areas:       f.areaNames(st, p.AreaIDs),
		Languages:   strings.Join(p.Languages, ", "),
		Bio:         util.TruncateString(p.Bio(st.Locale), constants.StringLimits.Bio),
	}
	if p.PricingHint != nil {
		item.Pricing = *p.PricingHint
	}
	if p.Availability != nil {
		item.Availability = *p.Availability
	}
	return item
}

func (f *ResponseFormatter) areaNames(st locale.State, ids []int64) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, f.catalog.AreaName(id, st.Locale))
	}
	return strings.Join(names, ", ")
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}
