package adapter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/util"
)

var controlCharsPattern = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F]`)

// MessageAdapter converts shell input lines to commands.
type MessageAdapter struct {
	prefix string
}

// NewMessageAdapter creates a MessageAdapter. When prefix is set it is
// stripped from input that starts with it; input without it is still accepted.
func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: strings.TrimSpace(prefix)}
}

// ParsedCommand represents a parsed command. Err is set when the command
// word was recognized but its arguments were not valid.
type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
	Err        error
}

var commandAliases = map[domain.CommandType][]string{
	domain.CommandHome:      {"home", "start", "الرئيسية", "رئيسية", "בית"},
	domain.CommandProviders: {"providers", "list", "pros", "المحترفون", "محترفين", "בעלי-מקצוע", "מקצוענים"},
	domain.CommandProvider:  {"provider", "profile", "show", "مزود", "ملف", "ספק", "פרופיל"},
	domain.CommandRequest:   {"request", "lead", "طلب", "اطلب", "בקשה"},
	domain.CommandReview:    {"review", "rate", "تقييم", "דירוג"},
	domain.CommandLogin:     {"login", "signin", "دخول", "התחברות"},
	domain.CommandDashboard: {"dashboard", "inbox", "لوحة", "דאשבורד"},
	domain.CommandLocale:    {"lang", "language", "locale", "لغة", "שפה"},
	domain.CommandCatalog:   {"catalog", "cities", "categories", "فئات", "مدن", "קטגוריות", "ערים"},
	domain.CommandHelp:      {"help", "?", "commands", "مساعدة", "עזרה"},
}

// ParseLine parses one line of shell input.
func (ma *MessageAdapter) ParseLine(line string) *ParsedCommand {
	text := strings.TrimSpace(controlCharsPattern.ReplaceAllString(line, ""))
	if text == "" {
		return ma.createUnknownCommand("")
	}

	commandText := text
	if ma.prefix != "" && strings.HasPrefix(commandText, ma.prefix) {
		commandText = strings.TrimSpace(commandText[len(ma.prefix):])
	}

	parts, err := shlex.Split(commandText)
	if err != nil || len(parts) == 0 {
		parts = strings.Fields(commandText)
	}
	if len(parts) == 0 {
		return ma.createUnknownCommand(text)
	}

	cmdType := ma.matchCommand(parts[0])
	args := parts[1:]

	parsed := &ParsedCommand{
		Type:       cmdType,
		Params:     make(map[string]any),
		RawMessage: text,
	}

	switch cmdType {
	case domain.CommandProviders:
		filter, err := ma.parseProviderFilter(args)
		parsed.Params["filter"] = filter
		parsed.Err = err
	case domain.CommandProvider:
		ids, err := ma.parseIDArgs(args)
		parsed.Params["ids"] = ids
		parsed.Err = err
	case domain.CommandRequest:
		lead, err := ma.parseLeadArgs(args)
		parsed.Params["lead"] = lead
		parsed.Err = err
	case domain.CommandReview:
		review, err := ma.parseReviewArgs(args)
		parsed.Params["review"] = review
		parsed.Err = err
	case domain.CommandLogin:
		if len(args) < 2 {
			parsed.Err = fmt.Errorf("usage: login EMAIL PASSWORD")
			break
		}
		parsed.Params["email"] = args[0]
		parsed.Params["password"] = args[1]
	case domain.CommandLocale:
		if len(args) == 0 {
			parsed.Err = fmt.Errorf("usage: lang ar|he|en")
			break
		}
		parsed.Params["locale"] = args[0]
	case domain.CommandUnknown:
		parsed.Params["command"] = parts[0]
	}

	return parsed
}

// Command matchers

func (ma *MessageAdapter) matchCommand(word string) domain.CommandType {
	cmd := util.Normalize(word)
	for cmdType, aliases := range commandAliases {
		if util.Contains(aliases, cmd) {
			return cmdType
		}
	}
	return domain.CommandUnknown
}

// Argument parsers

// splitKeyValue separates key=value arguments from bare words.
func splitKeyValue(args []string) (map[string]string, []string) {
	kv := make(map[string]string)
	var bare []string
	for _, arg := range args {
		if idx := strings.Index(arg, "="); idx > 0 {
			kv[util.Normalize(arg[:idx])] = strings.TrimSpace(arg[idx+1:])
			continue
		}
		bare = append(bare, arg)
	}
	return kv, bare
}

func lookup(kv map[string]string, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := kv[k]; ok {
			return v, true
		}
	}
	return "", false
}

func parsePositiveID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", name, value)
	}
	return id, nil
}

func (ma *MessageAdapter) parseProviderFilter(args []string) (domain.ProviderFilter, error) {
	var filter domain.ProviderFilter
	kv, bare := splitKeyValue(args)

	for _, word := range bare {
		switch util.Normalize(word) {
		case "verified", "موثوق", "מאומת":
			filter.Verified = domain.BoolPtr(true)
		default:
			return filter, fmt.Errorf("unexpected argument %q", word)
		}
	}

	if v, ok := lookup(kv, "verified"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("verified must be true or false, got %q", v)
		}
		filter.Verified = domain.BoolPtr(b)
	}
	if v, ok := lookup(kv, "category", "category_id"); ok {
		id, err := parsePositiveID("category", v)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = domain.Int64Ptr(id)
	}
	if v, ok := lookup(kv, "city", "city_id"); ok {
		id, err := parsePositiveID("city", v)
		if err != nil {
			return filter, err
		}
		filter.CityID = domain.Int64Ptr(id)
	}
	if v, ok := lookup(kv, "areas", "area", "area_ids"); ok {
		ids, err := util.ParseIDList(v)
		if err != nil {
			return filter, err
		}
		filter.AreaIDs = ids
	}
	if v, ok := lookup(kv, "lang", "language"); ok {
		filter.Language = util.Normalize(v)
	}
	if v, ok := lookup(kv, "sort"); ok {
		filter.Sort = util.Normalize(v)
	}
	return filter, nil
}

func (ma *MessageAdapter) parseIDArgs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: provider ID [ID...]")
	}
	ids, err := util.ParseIDList(strings.Join(args, ","))
	if err != nil {
		return nil, err
	}
	return util.UniqueIDs(ids), nil
}

// parseLeadArgs builds a lead from key=value pairs. Bare words are joined
// into the description when no description= key is given.
func (ma *MessageAdapter) parseLeadArgs(args []string) (*domain.LeadRequest, error) {
	kv, bare := splitKeyValue(args)
	lead := &domain.LeadRequest{AreaIDs: []int64{}}

	v, ok := lookup(kv, "category", "category_id")
	if !ok {
		return nil, fmt.Errorf("category is required")
	}
	id, err := parsePositiveID("category", v)
	if err != nil {
		return nil, err
	}
	lead.CategoryID = id

	v, ok = lookup(kv, "city", "city_id")
	if !ok {
		return nil, fmt.Errorf("city is required")
	}
	if id, err = parsePositiveID("city", v); err != nil {
		return nil, err
	}
	lead.CityID = id

	if v, ok := lookup(kv, "areas", "area", "area_ids"); ok {
		ids, err := util.ParseIDList(v)
		if err != nil {
			return nil, err
		}
		lead.AreaIDs = ids
	}

	if v, ok := lookup(kv, "description", "desc"); ok {
		lead.Description = v
	} else {
		lead.Description = strings.Join(bare, " ")
	}
	if v, ok := lookup(kv, "time", "preferred_time"); ok && v != "" {
		lead.PreferredTime = domain.StringPtr(v)
	}
	return lead, nil
}

func (ma *MessageAdapter) parseReviewArgs(args []string) (*domain.Review, error) {
	kv, bare := splitKeyValue(args)
	review := &domain.Review{}

	fields := []struct {
		name string
		keys []string
		dst  *int64
	}{
		{"lead", []string{"lead", "lead_id"}, &review.LeadID},
		{"provider", []string{"provider", "provider_id"}, &review.ProviderID},
	}
	for _, field := range fields {
		v, ok := lookup(kv, field.keys...)
		if !ok {
			return nil, fmt.Errorf("%s is required", field.name)
		}
		id, err := parsePositiveID(field.name, v)
		if err != nil {
			return nil, err
		}
		*field.dst = id
	}

	v, ok := lookup(kv, "rating", "stars")
	if !ok {
		return nil, fmt.Errorf("rating is required")
	}
	rating, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("rating must be a whole number, got %q", v)
	}
	review.Rating = rating

	if v, ok := lookup(kv, "comment"); ok && v != "" {
		review.Comment = domain.StringPtr(v)
	} else if len(bare) > 0 {
		review.Comment = domain.StringPtr(strings.Join(bare, " "))
	}
	return review, nil
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     map[string]any{"command": text},
		RawMessage: text,
	}
}
