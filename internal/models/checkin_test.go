package models

import (
	"encoding/json"
	"testing"
)

func TestCheckinValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantKind  CheckinValueKind
		wantBool  bool
		wantCount int
		wantErr   bool
	}{
		{
			name:     "boolean true",
			json:     `{"value": true}`,
			wantKind: ValueBool,
			wantBool: true,
		},
		{
			name:     "boolean false",
			json:     `{"value": false}`,
			wantKind: ValueBool,
			wantBool: false,
		},
		{
			name:      "integer count",
			json:      `{"value": 3}`,
			wantKind:  ValueCount,
			wantCount: 3,
		},
		{
			name:      "zero count",
			json:      `{"value": 0}`,
			wantKind:  ValueCount,
			wantCount: 0,
		},
		{
			name:    "string rejected",
			json:    `{"value": "yes"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result struct {
				Value CheckinValue `json:"value"`
			}
			err := json.Unmarshal([]byte(tt.json), &result)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}

			if result.Value.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", result.Value.Kind, tt.wantKind)
			}
			if result.Value.Bool != tt.wantBool {
				t.Errorf("Bool = %v, want %v", result.Value.Bool, tt.wantBool)
			}
			if result.Value.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", result.Value.Count, tt.wantCount)
			}
		})
	}
}

func TestCheckinValue_Performed(t *testing.T) {
	tests := []struct {
		name  string
		value CheckinValue
		want  bool
	}{
		{name: "bool true", value: BoolValue(true), want: true},
		{name: "bool false", value: BoolValue(false), want: false},
		{name: "zero value is not performed", value: CheckinValue{}, want: false},
		{name: "count above zero", value: CountValue(2), want: true},
		{name: "count zero matches false", value: CountValue(0), want: false},
		{name: "negative count matches false", value: CountValue(-1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Performed(); got != tt.want {
				t.Errorf("Performed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckinValue_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(BoolValue(true))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != "true" {
		t.Errorf("Marshal bool = %s, want true", b)
	}

	b, err = json.Marshal(CountValue(4))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != "4" {
		t.Errorf("Marshal count = %s, want 4", b)
	}
}
