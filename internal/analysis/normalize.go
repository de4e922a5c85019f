// Package analysis turns AI-generated resume analysis payloads into the
// fixed AnalysisResult shape. The model's reply format has drifted over time
// (score became total, sub_scores became breakdown), so every payload is
// normalized once here and downstream code never branches on its version.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/careerai/careerai/pkg/models"
)

// Normalize coerces raw into a complete AnalysisResult. It never panics and
// never returns a partially populated value:
//   - input that already matches the schema is returned unchanged;
//   - input carrying current or legacy fields is rebuilt field by field;
//   - anything else yields the zero result.
func Normalize(raw any) (out models.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis normalization panicked", "error", r)
			out = models.EmptyAnalysisResult()
		}
	}()

	obj, ok := asObject(raw)
	if ok {
		if res, valid := validateStrict(obj); valid {
			return res
		}
		if recognizable(obj) {
			return repair(obj)
		}
	}

	if !isEmpty(raw) {
		slog.Warn("analysis payload unrecognized, using empty result", "shape", describe(raw))
	}
	return models.EmptyAnalysisResult()
}

// NormalizeJSON decodes data and normalizes it. Invalid JSON yields the zero result.
func NormalizeJSON(data []byte) models.AnalysisResult {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return models.EmptyAnalysisResult()
	}
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		slog.Warn("analysis payload is not valid JSON, using empty result", "error", err, "bytes", len(data))
		return models.EmptyAnalysisResult()
	}
	return Normalize(raw)
}

// --- strict path ---

func validateStrict(obj map[string]any) (models.AnalysisResult, bool) {
	var res models.AnalysisResult
	var ok bool

	if res.Total, ok = strictScore(obj["total"]); !ok {
		return res, false
	}

	bd, ok := obj["breakdown"].(map[string]any)
	if !ok {
		return res, false
	}
	for key, dst := range map[string]*float64{
		"ats": &res.Breakdown.ATS, "impact": &res.Breakdown.Impact,
		"keywords": &res.Breakdown.Keywords, "clarity": &res.Breakdown.Clarity,
	} {
		if *dst, ok = strictScore(bd[key]); !ok {
			return res, false
		}
	}

	ex, ok := obj["explanation"].(map[string]any)
	if !ok {
		return res, false
	}
	for key, dst := range map[string]*[]string{
		"ats": &res.Explanation.ATS, "impact": &res.Explanation.Impact,
		"keywords": &res.Explanation.Keywords, "clarity": &res.Explanation.Clarity,
	} {
		if *dst, ok = strictStrings(ex[key]); !ok {
			return res, false
		}
	}

	kw, ok := obj["keywords"].(map[string]any)
	if !ok {
		return res, false
	}
	for key, dst := range map[string]*[]string{
		"present": &res.Keywords.Present, "missing": &res.Keywords.Missing, "irrelevant": &res.Keywords.Irrelevant,
	} {
		if *dst, ok = strictStrings(kw[key]); !ok {
			return res, false
		}
	}

	items, ok := obj["suggestions"].([]any)
	if !ok {
		return res, false
	}
	res.Suggestions = make([]models.Suggestion, 0, len(items))
	for _, item := range items {
		s, ok := strictSuggestion(item)
		if !ok {
			return res, false
		}
		res.Suggestions = append(res.Suggestions, s)
	}

	return res, true
}

func strictScore(v any) (float64, bool) {
	f, ok := number(v)
	if !ok || math.IsNaN(f) || f < 0 || f > 100 {
		return 0, false
	}
	return f, true
}

func strictStrings(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func strictSuggestion(v any) (models.Suggestion, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return models.Suggestion{}, false
	}
	var s models.Suggestion
	fields := []struct {
		key     string
		dst     *string
		allowed []string
	}{
		{"id", &s.ID, nil},
		{"type", &s.Type, models.SuggestionTypes},
		{"severity", &s.Severity, models.SuggestionSeverity},
		{"section_target", &s.SectionTarget, models.SectionTargets},
		{"description", &s.Description, nil},
		{"proposed_fix", &s.ProposedFix, nil},
	}
	for _, f := range fields {
		str, ok := m[f.key].(string)
		if !ok {
			return models.Suggestion{}, false
		}
		if f.allowed != nil && !slices.Contains(f.allowed, str) {
			return models.Suggestion{}, false
		}
		*f.dst = str
	}
	return s, true
}

// --- repair path ---

var (
	totalKeys     = []string{"total", "overall_score", "overallScore", "score", "ats_score"}
	breakdownKeys = []string{"breakdown", "sub_scores", "subScores", "scores"}
	atsKeys       = []string{"ats", "ats_compatibility", "atsCompatibility"}
	impactKeys    = []string{"impact", "impact_metrics", "impactMetrics"}
	keywordKeys   = []string{"keywords", "keyword_match", "keywordMatch"}
	clarityKeys   = []string{"clarity", "clarity_score", "readability"}
)

// recognizable reports whether obj carries any current or legacy analysis field.
func recognizable(obj map[string]any) bool {
	for _, keys := range [][]string{totalKeys, breakdownKeys, {"explanation", "keywords", "suggestions"}} {
		for _, k := range keys {
			if _, ok := obj[k]; ok {
				return true
			}
		}
	}
	return false
}

func repair(obj map[string]any) models.AnalysisResult {
	res := models.EmptyAnalysisResult()

	res.Total = firstScore(obj, totalKeys)

	var scoreObjs []map[string]any
	for _, k := range breakdownKeys {
		if m, ok := obj[k].(map[string]any); ok {
			scoreObjs = append(scoreObjs, m)
		}
	}
	// Walk in reverse so the current key wins over its legacy aliases.
	for i := len(scoreObjs) - 1; i >= 0; i-- {
		m := scoreObjs[i]
		fillScore(&res.Breakdown.ATS, m, atsKeys)
		fillScore(&res.Breakdown.Impact, m, impactKeys)
		fillScore(&res.Breakdown.Keywords, m, keywordKeys)
		fillScore(&res.Breakdown.Clarity, m, clarityKeys)
	}

	if ex, ok := obj["explanation"].(map[string]any); ok {
		res.Explanation.ATS = firstStrings(ex, atsKeys)
		res.Explanation.Impact = firstStrings(ex, impactKeys)
		res.Explanation.Keywords = firstStrings(ex, keywordKeys)
		res.Explanation.Clarity = firstStrings(ex, clarityKeys)
	}

	if kw, ok := obj["keywords"].(map[string]any); ok {
		res.Keywords.Present = firstStrings(kw, []string{"present", "matched", "found"})
		res.Keywords.Missing = firstStrings(kw, []string{"missing"})
		res.Keywords.Irrelevant = firstStrings(kw, []string{"irrelevant"})
	}
	if len(res.Keywords.Present) == 0 {
		res.Keywords.Present = firstStrings(obj, []string{"matched_keywords", "present_keywords"})
	}
	if len(res.Keywords.Missing) == 0 {
		res.Keywords.Missing = firstStrings(obj, []string{"missing_keywords"})
	}

	for _, k := range []string{"suggestions", "improvements", "recommendations"} {
		items, ok := obj[k].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			if s, ok := repairSuggestion(len(res.Suggestions), item); ok {
				res.Suggestions = append(res.Suggestions, s)
			}
		}
		break
	}

	return res
}

func repairSuggestion(idx int, v any) (models.Suggestion, bool) {
	s := models.Suggestion{
		ID:            fmt.Sprintf("suggestion-%d", idx+1),
		Type:          "general",
		Severity:      "medium",
		SectionTarget: "general",
	}

	switch item := v.(type) {
	case string:
		s.Description = strings.TrimSpace(item)
	case map[string]any:
		if id := firstString(item, []string{"id"}); id != "" {
			s.ID = id
		}
		s.Type = enumOr(firstString(item, []string{"type", "category"}), models.SuggestionTypes, s.Type)
		s.Severity = enumOr(firstString(item, []string{"severity", "priority"}), models.SuggestionSeverity, s.Severity)
		s.SectionTarget = enumOr(firstString(item, []string{"section_target", "sectionTarget", "section"}), models.SectionTargets, s.SectionTarget)
		s.Description = firstString(item, []string{"description", "issue", "text", "message"})
		s.ProposedFix = firstString(item, []string{"proposed_fix", "proposedFix", "fix", "suggestion"})
	}

	if s.Description == "" && s.ProposedFix == "" {
		return models.Suggestion{}, false
	}
	return s, true
}

// --- helpers ---

func firstScore(m map[string]any, keys []string) float64 {
	var out float64
	fillScore(&out, m, keys)
	return out
}

// fillScore writes the first numeric value found under keys into dst, clamped
// to [0, 100]. dst is left alone when no key holds a number.
func fillScore(dst *float64, m map[string]any, keys []string) {
	for _, k := range keys {
		if f, ok := lenientNumber(m[k]); ok {
			*dst = clampScore(f)
			return
		}
	}
}

func firstStrings(m map[string]any, keys []string) []string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if out := stringList(v); len(out) > 0 {
				return out
			}
		}
	}
	return []string{}
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func enumOr(v string, allowed []string, fallback string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if slices.Contains(allowed, v) {
		return v
	}
	return fallback
}

// stringList accepts a single string or a list, keeping non-empty strings only.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return []string{}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func lenientNumber(v any) (float64, bool) {
	if f, ok := number(v); ok {
		return f, !math.IsNaN(f)
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

func clampScore(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 100:
		return 100
	}
	return f
}

// asObject returns raw as a JSON object. Typed Go values are round-tripped
// through encoding/json so callers can pass structs or raw bytes.
func asObject(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case nil, string, bool, float64, json.Number, []any:
		return nil, false
	case map[string]any:
		return v, true
	case json.RawMessage:
		return decodeObject(v)
	case []byte:
		return decodeObject(v)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, false
	}
	return decodeObject(b)
}

func decodeObject(b []byte) (map[string]any, bool) {
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case json.RawMessage:
		return len(bytes.TrimSpace(v)) == 0
	case []byte:
		return len(bytes.TrimSpace(v)) == 0
	}
	return false
}

// describe summarizes an unrecognized payload for logs without dumping its content.
func describe(raw any) string {
	m, ok := raw.(map[string]any)
	if !ok {
		return fmt.Sprintf("%T", raw)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 10 {
		keys = append(keys[:10], "...")
	}
	return "object{" + strings.Join(keys, ",") + "}"
}
