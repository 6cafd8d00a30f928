package analysis

import (
	"encoding/json"
	"testing"
)

func TestRepairJSON_TrailingCommas(t *testing.T) {
	in := `{"a": [1, 2, 3,], "b": {"c": 1,},}`
	out := RepairJSON(in)
	var v map[string]interface{}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("repaired JSON still invalid: %v\n%s", err, out)
	}
}

func TestRepairJSON_SmartQuotes(t *testing.T) {
	in := "{“summary”: “all good”}"
	out := RepairJSON(in)
	var v map[string]interface{}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("repaired JSON still invalid: %v\n%s", err, out)
	}
	if v["summary"] != "all good" {
		t.Errorf("summary = %v", v["summary"])
	}
}

func TestRepairJSON_SingleQuotedStrings(t *testing.T) {
	in := `{'summary': 'fine', 'score': 1}`
	out := RepairJSON(in)
	var v map[string]interface{}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("repaired JSON still invalid: %v\n%s", err, out)
	}
	if v["summary"] != "fine" {
		t.Errorf("summary = %v", v["summary"])
	}
}

func TestRepairJSON_PreservesStringContents(t *testing.T) {
	in := `{"note": "commas, braces } and 'quotes' stay intact,"}`
	out := RepairJSON(in)
	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("valid JSON broken by repair: %v\n%s", err, out)
	}
	if v["note"] != "commas, braces } and 'quotes' stay intact," {
		t.Errorf("string content altered: %q", v["note"])
	}
}

func TestRepairJSON_ValidInputUnchanged(t *testing.T) {
	in := `{"a":1,"b":[true,null],"c":"x"}`
	if out := RepairJSON(in); out != in {
		t.Errorf("valid JSON modified:\n in: %s\nout: %s", in, out)
	}
}
