package store

// Difficulty levels for best practices.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Snippet languages. LanguageAny matches every language when used as a filter.
const (
	LanguagePowerFx = "power-fx"
	LanguageYAML    = "yaml"
	LanguageJSON    = "json"
	LanguageAny     = "any"
)

// Governance zones, least to most restricted.
const (
	ZoneGreen    = "green"
	ZoneYellow   = "yellow"
	ZoneRed      = "red"
	ZoneRedExtra = "red-extra"
)

// BestPractice is a curated authoring recommendation.
type BestPractice struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Rationale   string   `json:"rationale"`
	ExampleGood string   `json:"example_good"`
	ExampleBad  string   `json:"example_bad"`
	Difficulty  string   `json:"difficulty"`
	Tags        []string `json:"tags"`
}

// Snippet is a copy-paste ready code sample.
type Snippet struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Language    string   `json:"language"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Explanation string   `json:"explanation"`
	UseCase     string   `json:"use_case"`
	Tags        []string `json:"tags"`
}

// ResolutionStep is one ordered step of a troubleshooting guide.
type ResolutionStep struct {
	Step    int    `json:"step"`
	Action  string `json:"action"`
	Details string `json:"details"`
}

// TroubleshootingGuide maps symptoms to causes and resolution steps.
type TroubleshootingGuide struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Category string           `json:"category"`
	Symptoms []string         `json:"symptoms"`
	Causes   []string         `json:"causes"`
	Steps    []ResolutionStep `json:"steps"`
	Tags     []string         `json:"tags"`
}

// Tip is a short piece of practical advice.
type Tip struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Tip          string   `json:"tip"`
	WhyItMatters string   `json:"why_it_matters"`
	Tags         []string `json:"tags"`
}

// ZoneInfo describes a feature's availability within one governance zone.
type ZoneInfo struct {
	Available    bool     `json:"available"`
	Reason       string   `json:"reason,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// GovernanceEntry describes which governance zone a feature requires.
// Feature is the canonical key: lowercase with hyphen separators.
type GovernanceEntry struct {
	Feature               string              `json:"feature"`
	DisplayName           string              `json:"display_name"`
	MinimumZone           string              `json:"minimum_zone"`
	Zones                 map[string]ZoneInfo `json:"zones"`
	JustificationTemplate string              `json:"justification_template,omitempty"`
}
