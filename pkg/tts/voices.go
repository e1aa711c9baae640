package tts

// Voice describes an upstream voice preset.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// Presets lists the voice IDs the frontend offers. The upstream accepts
// any of its catalog IDs; this table is only for display and defaults.
var Presets = []Voice{
	{ID: "en-US-natalie", Name: "Natalie", Language: "en-US"},
	{ID: "en-US-terrell", Name: "Terrell", Language: "en-US"},
	{ID: "en-US-miles", Name: "Miles", Language: "en-US"},
	{ID: "en-UK-ruby", Name: "Ruby", Language: "en-UK"},
	{ID: "en-AU-evelyn", Name: "Evelyn", Language: "en-AU"},
}

// KnownVoice reports whether id is one of the bundled presets.
func KnownVoice(id string) bool {
	for _, v := range Presets {
		if v.ID == id {
			return true
		}
	}
	return false
}
