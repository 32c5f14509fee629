package api

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNumberJSON(t *testing.T) {
	t.Run("marshals as a bare number", func(t *testing.T) {
		out, err := json.Marshal(Settlement{Amount: NewNumber(decimal.RequireFromString("125.50"))})
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		want := `{"from_user_id":"","from_user_name":"","to_user_id":"","to_user_name":"","amount":125.5}`
		if string(out) != want {
			t.Errorf("Marshal() = %s, want %s", out, want)
		}
	})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare number", `{"amount":99.99}`, "99.99"},
		{"quoted number", `{"amount":"33.33"}`, "33.33"},
		{"integer", `{"amount":150}`, "150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateExpenseRequest
			if err := json.Unmarshal([]byte(tt.input), &req); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !req.Amount.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Amount = %s, want %s", req.Amount, tt.want)
			}
		})
	}

	t.Run("rejects non-numbers", func(t *testing.T) {
		var req CreateExpenseRequest
		if err := json.Unmarshal([]byte(`{"amount":"lots"}`), &req); err == nil {
			t.Error("expected an error for a non-numeric amount")
		}
	})
}

func TestNumberPtr(t *testing.T) {
	if NumberPtr(nil) != nil {
		t.Error("NumberPtr(nil) should be nil")
	}
	d := decimal.NewFromInt(40)
	if n := NumberPtr(&d); n == nil || !n.Equal(d) {
		t.Errorf("NumberPtr() = %v, want 40", n)
	}
}

func TestCodecOmitsUnsetPatchFields(t *testing.T) {
	var codec Codec
	if codec.Name() != "json" {
		t.Errorf("Name() = %q, want json", codec.Name())
	}

	desc := "Dinner"
	out, err := codec.Marshal(&UpdateExpenseRequest{ExpenseID: "e1", Description: &desc})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"expense_id":"e1","description":"Dinner"}` {
		t.Errorf("Marshal() = %s", out)
	}

	var req UpdateExpenseRequest
	if err := codec.Unmarshal(out, &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if req.Amount != nil {
		t.Error("expected Amount to stay unset")
	}
}
