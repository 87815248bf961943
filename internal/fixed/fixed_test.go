package fixed

import (
	"encoding/json"
	"testing"
)

func TestDec6_DivTruncatesTowardZero(t *testing.T) {
	cases := []struct {
		a, b, want string
	}{
		{"7", "2", "3.500000"},
		{"1", "3", "0.333333"},
		{"-1", "3", "-0.333333"},
		{"1", "-3", "-0.333333"},
		{"0.000001", "2", "0.000000"},
	}
	for _, c := range cases {
		got := D6(c.a).Div(D6(c.b)).String()
		if got != c.want {
			t.Errorf("D6(%s).Div(%s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestDec6_MulTruncates(t *testing.T) {
	got := D6("0.000003").Mul(D6("0.5")).String()
	if got != "0.000001" {
		t.Errorf("got %s, want 0.000001", got)
	}

	got = D6("-0.000003").Mul(D6("0.5")).String()
	if got != "-0.000001" {
		t.Errorf("negative truncation toward zero: got %s, want -0.000001", got)
	}
}

func TestDec18_To6_Truncates(t *testing.T) {
	got := D18("1.9999999").To6().String()
	if got != "1.999999" {
		t.Errorf("got %s, want 1.999999", got)
	}

	got = D18("-1.9999999").To6().String()
	if got != "-1.999999" {
		t.Errorf("got %s, want -1.999999", got)
	}
}

func TestDec6_To18_Exact(t *testing.T) {
	a := D6("123.456789")
	if a.To18().To6().Cmp(a) != 0 {
		t.Errorf("round trip lost precision: %s", a.To18().To6())
	}
}

func TestUDec6_SubUnderflowFaults(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected underflow fault")
		}
		f, ok := r.(Fault)
		if !ok || f.Kind != FaultUnderflow {
			t.Fatalf("got %v, want Underflow fault", r)
		}
	}()
	U6("1").Sub(U6("2"))
}

func TestOverflowFaults(t *testing.T) {
	defer func() {
		r := recover()
		f, ok := r.(Fault)
		if !ok || f.Kind != FaultOverflow {
			t.Fatalf("got %v, want Overflow fault", r)
		}
	}()
	big := D18("1e29")
	big.Mul(big)
}

func TestDivisionByZeroFaults(t *testing.T) {
	defer func() {
		r := recover()
		f, ok := r.(Fault)
		if !ok || f.Kind != FaultDivisionByZero {
			t.Fatalf("got %v, want DivisionByZero fault", r)
		}
	}()
	D6("1").Div(D6("0"))
}

func TestDiv18_Precision(t *testing.T) {
	// 5 / 10 at 18 decimals
	got := U6("5").Div18(U6("10")).String()
	if got != "0.500000000000000000" {
		t.Errorf("got %s", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		A Dec6   `json:"a"`
		B UDec18 `json:"b"`
	}
	in := wrapper{A: D6("-12.5"), B: U18("0.000000000000000001")}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out wrapper
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.A.Cmp(in.A) != 0 || out.B.Cmp(in.B) != 0 {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestUnmarshalRejectsNegativeUnsigned(t *testing.T) {
	var u UDec6
	if err := json.Unmarshal([]byte(`"-1"`), &u); err == nil {
		t.Error("expected error for negative unsigned value")
	}
}
