package pipeline

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field extraction layer. TC payloads name the same field differently per
// category (checkIn/startDate/dateFrom and so on) and encode many scalars as
// {code, name} objects. Every read of a raw record goes through the helpers
// here so new field aliases land in one place.

var (
	reSpaces = regexp.MustCompile(`[\s\x{00A0}]+`)
	reDigit  = regexp.MustCompile(`\d`)
)

// SafeStr coerces an arbitrary payload value to a trimmed string. Objects
// collapse to name, then description, then code, then their JSON form.
func SafeStr(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case map[string]any:
		for _, key := range []string{"name", "description", "code"} {
			if s, ok := t[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		blob, _ := json.Marshal(t)
		return string(blob)
	default:
		return ""
	}
}

// FirstString returns the SafeStr of the first key with a non-empty value.
func FirstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := SafeStr(raw[key]); s != "" {
			return s
		}
	}
	return ""
}

// FirstNumber returns the first key that holds a numeric value, 0 otherwise.
func FirstNumber(raw map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if f, ok := toFloat(raw[key]); ok {
			return f
		}
	}
	return 0
}

// FirstList returns the first key holding a non-empty array, filtered to its
// object elements. Empty arrays do not stop the probe; TC emits `hotels: []`
// next to a populated alias like `hotelservices`.
func FirstList(raw map[string]any, keys ...string) []map[string]any {
	for _, key := range keys {
		arr, ok := raw[key].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		out := make([]map[string]any, 0, len(arr))
		for _, el := range arr {
			if m, ok := el.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// ExtractPrice probes the shapes TC uses for service prices: a flat price
// field, two nested breakdown variants, then a flat totalPrice.
func ExtractPrice(raw map[string]any) float64 {
	if f, ok := toFloat(raw["price"]); ok {
		return f
	}
	if f, ok := toFloat(dig(raw, "pricebreakdown", "totalPrice", "microsite", "amount")); ok {
		return f
	}
	if f, ok := toFloat(dig(raw, "priceBreakdown", "totalPrice", "amount")); ok {
		return f
	}
	if f, ok := toFloat(raw["totalPrice"]); ok {
		return f
	}
	return 0
}

// StripHTML reduces an HTML fragment to plain text: tags removed, entities
// decoded, whitespace collapsed. Idempotent for plain text and stripped
// output, so already-clean descriptions pass through unchanged. Known
// limitation: entity-encoded markup ("&lt;b&gt;") decodes to literal markup,
// which a second pass would then strip.
func StripHTML(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	text := input
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(input)); err == nil {
		text = doc.Text()
	}
	return strings.TrimSpace(reSpaces.ReplaceAllString(text, " "))
}

// ParseStars accepts a numeric star rating or pulls the first digit out of a
// category label such as "4-star-superior".
func ParseStars(v any) int {
	if f, ok := toFloat(v); ok {
		return int(f)
	}
	s := SafeStr(v)
	if d := reDigit.FindString(s); d != "" {
		n, _ := strconv.Atoi(d)
		return n
	}
	return 0
}

// StringList coerces an array of strings or {code,name} objects to a slice of
// non-empty strings.
func StringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if s := SafeStr(el); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func dig(raw map[string]any, path ...string) any {
	var cur any = raw
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}
