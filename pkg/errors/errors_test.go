package errors

import (
	"errors"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestErrorWithContext(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "phase and node",
			err:  New(ErrCodeEmptyTier, "no children").In(PhaseLayout, "contour"),
			want: `EMPTY_TIER [layout "contour"]: no children`,
		},
		{
			name: "phase only",
			err:  New(ErrCodeInvalidConfig, "bad radius").In(PhaseConfig, ""),
			want: "INVALID_CONFIG [config]: bad radius",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeGlyphNotFound, errors.New("no such rune"), "glyph U+0041").In(PhaseGlyph, ""),
			want: "GLYPH_NOT_FOUND [glyph]: glyph U+0041: no such rune",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidConfig, cause, "failed to load")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeUnknownNode, "test"), ErrCodeUnknownNode, true},
		{"non-matching code", New(ErrCodeUnknownNode, "test"), ErrCodeEmptyTier, false},
		{"wrapped error", Wrap(ErrCodeInvalidConfig, New(ErrCodeUnknownNode, "inner"), "outer"), ErrCodeInvalidConfig, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeMissingColor, "no palette entry"), "no palette entry"},
		{"structured with context", New(ErrCodeMissingColor, "no palette entry").In(PhaseRender, "glyph"), `render "glyph": no palette entry`},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorFamilies(t *testing.T) {
	tests := []struct {
		code       Code
		wantConfig bool
		wantData   bool
	}{
		{ErrCodeInvalidConfig, true, false},
		{ErrCodeUnknownNode, true, false},
		{ErrCodeEmptyTier, true, false},
		{ErrCodeMissingPosition, true, false},
		{ErrCodeMissingColor, true, false},
		{ErrCodeGlyphNotFound, false, true},
		{ErrCodeIncompatibleGlyphs, false, true},
		{ErrCodeInternal, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := IsConfigError(err); got != tt.wantConfig {
				t.Errorf("IsConfigError() = %v, want %v", got, tt.wantConfig)
			}
			if got := IsDataError(err); got != tt.wantData {
				t.Errorf("IsDataError() = %v, want %v", got, tt.wantData)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"positive", 1, false},
		{"zero", 0, true},
		{"negative", -3, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("radius1", tt.v)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("randomness", 0); err != nil {
		t.Errorf("ValidateNonNegative(0) = %v", err)
	}
	if err := ValidateNonNegative("randomness", -1); err == nil {
		t.Error("ValidateNonNegative(-1) = nil, want error")
	}
	if err := ValidateFinite("angle1", -45); err != nil {
		t.Errorf("ValidateFinite(-45) = %v", err)
	}
	if err := ValidateFinite("angle1", math.NaN()); err == nil {
		t.Error("ValidateFinite(NaN) = nil, want error")
	}
}

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "glyph", false},
		{"with space", "font lib", false},
		{"camel", "bPoint", false},
		{"prefixed", "font_info", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 100)), true},
		{"control char", "foo\x01bar", true},
		{"leading space", " glyph", true},
		{"trailing newline", "glyph\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
