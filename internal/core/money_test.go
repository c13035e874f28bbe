package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.001", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestAmountJSONIsBareNumber(t *testing.T) {
	b, err := json.Marshal(struct {
		Amount Amount `json:"amount"`
	}{MustParseAmount("12.5")})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"amount":12.5}` {
		t.Fatalf("unexpected json: %s", b)
	}

	var zero struct {
		Amount Amount `json:"amount"`
	}
	if b, _ := json.Marshal(zero); string(b) != `{"amount":0}` {
		t.Fatalf("zero amount json: %s", b)
	}
}

func TestAmountUnmarshalNumberAndString(t *testing.T) {
	for _, in := range []string{`{"amount":42.75}`, `{"amount":"42.75"}`} {
		var v struct {
			Amount Amount `json:"amount"`
		}
		if err := json.Unmarshal([]byte(in), &v); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !v.Amount.Equal(MustParseAmount("42.75")) {
			t.Fatalf("%s: got %s", in, v.Amount)
		}
	}
}

func TestAmountArithmeticIsExact(t *testing.T) {
	var sum Amount
	for i := 0; i < 10; i++ {
		sum = sum.Add(MustParseAmount("0.1"))
	}
	if !sum.Equal(MustParseAmount("1")) {
		t.Fatalf("expected exact 1, got %s", sum)
	}
	if got := MustParseAmount("5").Sub(MustParseAmount("7.5")).Format(); got != "-$2.50" {
		t.Fatalf("unexpected format %q", got)
	}
}
