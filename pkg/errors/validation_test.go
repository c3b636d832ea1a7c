package errors

import "testing"

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "author", false},
		{"valid with underscore", "published_at", false},
		{"valid with dot", "venue.conference", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"tab", "published\tat", true},
		{"newline", "author\n", true},
		{"null byte", "foo\x00bar", true},
		{"leading space", " author", true},
		{"trailing space", "author ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("type", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeSchema) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeSchema)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	if err := ValidatePositive("beam_width", 20); err != nil {
		t.Errorf("ValidatePositive(20) = %v", err)
	}
	for _, v := range []int{0, -1} {
		err := ValidatePositive("beam_width", v)
		if !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidatePositive(%d) = %v, want INVALID_CONFIG", v, err)
		}
	}
}

func TestValidateUnitInterval(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name    string
		v       *float64
		wantErr bool
	}{
		{"unset", nil, false},
		{"zero", f(0), false},
		{"one", f(1), false},
		{"half", f(0.5), false},
		{"negative", f(-0.1), true},
		{"above one", f(1.5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnitInterval("local_threshold", tt.v)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnitInterval() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
