package settings

// CleanupPromptSections selects which sections of the LLM cleanup prompt are
// applied to raw transcripts. The backend treats it as opaque configuration;
// the prompt itself is assembled by the cleanup pipeline.
type CleanupPromptSections struct {
	RemoveFillers      bool   `json:"remove_fillers" yaml:"remove_fillers"`
	FixPunctuation     bool   `json:"fix_punctuation" yaml:"fix_punctuation"`
	FormatParagraphs   bool   `json:"format_paragraphs" yaml:"format_paragraphs"`
	CustomInstructions string `json:"custom_instructions,omitempty" yaml:"custom_instructions,omitempty"`
}

// AppSettings is the persisted application settings record. The three hotkey
// slots are cross-validated on the live update path; the scalar fields carry
// no cross-field invariants.
type AppSettings struct {
	ToggleHotkey    HotkeyConfig `json:"toggle_hotkey" yaml:"toggle_hotkey"`
	HoldHotkey      HotkeyConfig `json:"hold_hotkey" yaml:"hold_hotkey"`
	PasteLastHotkey HotkeyConfig `json:"paste_last_hotkey" yaml:"paste_last_hotkey"`

	SelectedMic           *string                `json:"selected_mic,omitempty" yaml:"selected_mic,omitempty"`
	SoundEnabled          bool                   `json:"sound_enabled" yaml:"sound_enabled"`
	CleanupPromptSections *CleanupPromptSections `json:"cleanup_prompt_sections,omitempty" yaml:"cleanup_prompt_sections,omitempty"`
	STTProvider           *string                `json:"stt_provider,omitempty" yaml:"stt_provider,omitempty"`
	LLMProvider           *string                `json:"llm_provider,omitempty" yaml:"llm_provider,omitempty"`
	AutoMuteAudio         bool                   `json:"auto_mute_audio" yaml:"auto_mute_audio"`
	STTTimeoutSeconds     *float64               `json:"stt_timeout_seconds,omitempty" yaml:"stt_timeout_seconds,omitempty"`
}

// DefaultSettings returns factory defaults. The three default hotkeys are
// defined mutually non-colliding.
func DefaultSettings() AppSettings {
	return AppSettings{
		ToggleHotkey:    DefaultToggleHotkey(),
		HoldHotkey:      DefaultHoldHotkey(),
		PasteLastHotkey: DefaultPasteLastHotkey(),
		SoundEnabled:    true,
	}
}

// Clone returns a deep copy of src.
// Use this when handing settings snapshots across package boundaries.
func Clone(src AppSettings) AppSettings {
	dst := src
	dst.ToggleHotkey = cloneHotkey(src.ToggleHotkey)
	dst.HoldHotkey = cloneHotkey(src.HoldHotkey)
	dst.PasteLastHotkey = cloneHotkey(src.PasteLastHotkey)
	dst.SelectedMic = cloneStringPtr(src.SelectedMic)
	dst.STTProvider = cloneStringPtr(src.STTProvider)
	dst.LLMProvider = cloneStringPtr(src.LLMProvider)
	if src.CleanupPromptSections != nil {
		sections := *src.CleanupPromptSections
		dst.CleanupPromptSections = &sections
	}
	if src.STTTimeoutSeconds != nil {
		timeout := *src.STTTimeoutSeconds
		dst.STTTimeoutSeconds = &timeout
	}
	return dst
}

func cloneStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
