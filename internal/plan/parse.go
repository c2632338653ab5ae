package plan

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// requiredFields must be present as strings on every combination.
var requiredFields = []string{"job_title", "company", "location", "xray_query"}

// Parse validates a raw generation response and returns the ordered plan.
// Any deviation from the schema is a *GenerationError carrying raw; its
// Reason names the offending path, such as combinations.2, and the wrapped
// error names the field.
func Parse(raw string) (*Plan, error) {
	body := stripFences(raw)

	fail := func(reason string, err error) (*Plan, error) {
		return nil, &GenerationError{Reason: reason, Raw: raw, Err: err}
	}

	if !gjson.Valid(body) {
		return fail("response is not valid JSON", nil)
	}
	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return fail("response is not a JSON object", nil)
	}

	list := doc.Get("combinations")
	if !list.IsArray() {
		return fail(`missing "combinations" array`, nil)
	}

	items := list.Array()
	combos := make([]Combination, 0, len(items))
	for i, item := range items {
		c, err := parseCombination(item)
		if err != nil {
			return fail(fmt.Sprintf("combinations.%d", i), err)
		}
		combos = append(combos, c)
	}

	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].Priority < combos[j].Priority
	})

	signals, err := parseSignals(doc.Get("negative_signals"))
	if err != nil {
		return fail("negative_signals", err)
	}

	return &Plan{Combinations: combos, NegativeSignals: signals}, nil
}

func parseCombination(item gjson.Result) (Combination, error) {
	if !item.IsObject() {
		return Combination{}, errors.New("not an object")
	}

	var missing []string
	fields := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		v := item.Get(name)
		switch {
		case !v.Exists() || v.Type == gjson.Null:
			missing = append(missing, name)
		case v.Type != gjson.String:
			return Combination{}, fmt.Errorf("%s is not a string", name)
		default:
			fields[name] = v.String()
		}
	}
	if strings.TrimSpace(fields["xray_query"]) == "" && !slices.Contains(missing, "xray_query") {
		missing = append(missing, "xray_query")
	}
	if len(missing) > 0 {
		return Combination{}, fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}

	priority := DefaultPriority
	if v := item.Get("priority"); v.Exists() && v.Type != gjson.Null {
		if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
			return Combination{}, fmt.Errorf("priority %s is not an integer", v.Raw)
		}
		priority = int(v.Int())
	}

	return Combination{
		JobTitle:  fields["job_title"],
		Company:   fields["company"],
		Location:  fields["location"],
		Priority:  priority,
		XRayQuery: strings.TrimSpace(fields["xray_query"]),
	}, nil
}

// parseSignals accepts a missing or null value as no signals. The result is
// never nil.
func parseSignals(v gjson.Result) ([]string, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return []string{}, nil
	}
	if !v.IsArray() {
		return nil, errors.New("not an array")
	}

	items := v.Array()
	out := make([]string, 0, len(items))
	for i, s := range items {
		if s.Type != gjson.String {
			return nil, fmt.Errorf("element %d is not a string", i)
		}
		out = append(out, s.String())
	}
	return out, nil
}

// stripFences unwraps a body enclosed in a markdown code fence. A ```json
// fence wins over a bare one; text outside the first fenced block is dropped.
func stripFences(s string) string {
	s = strings.TrimSpace(s)

	if _, after, ok := strings.Cut(s, "```json"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(s, "```"); ok {
		body, _, _ := strings.Cut(after, "```")
		// Drop a language tag such as ```JSON on the opening fence line.
		if tag, rest, ok := strings.Cut(body, "\n"); ok && !strings.ContainsAny(tag, "{[") {
			body = rest
		}
		return strings.TrimSpace(body)
	}
	return s
}
