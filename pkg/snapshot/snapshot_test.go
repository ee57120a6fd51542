package snapshot_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-priceform/pkg/snapshot"
)

func scenarioFields() []snapshot.Field {
	return []snapshot.Field{
		{Name: "area", Value: "3000"},
		{Name: "bedrooms", Value: "3"},
		{Name: "bathrooms", Value: "2"},
		{Name: "stories", Value: "2"},
		{Name: "parking", Value: "1"},
		{Name: "mainroad", Value: "1"},
		{Name: "guestroom", Value: "0"},
		{Name: "basement", Value: "0"},
		{Name: "hotwaterheating", Value: "0"},
		{Name: "airconditioning", Value: "1"},
		{Name: "prefarea", Value: "1"},
	}
}

func TestBuild_CoercesByFieldName(t *testing.T) {
	snap := snapshot.Build([]snapshot.Field{
		{Name: "area", Value: "1200.5"},
		{Name: "bathrooms", Value: "1.5"},
		{Name: "bedrooms", Value: "4"},
		{Name: "mainroad", Value: "1"},
		{Name: "furnishingstatus", Value: "semi-furnished"},
	})

	want := []snapshot.Entry{
		{Name: "area", Value: 1200.5},
		{Name: "bathrooms", Value: 1.5},
		{Name: "bedrooms", Value: int64(4)},
		{Name: "mainroad", Value: "1"},
		{Name: "furnishingstatus", Value: "semi-furnished"},
	}
	if diff := cmp.Diff(want, snap.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_NumericFieldsEncodeAsJSONNumbers(t *testing.T) {
	snap := snapshot.Build(scenarioFields())

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, name := range []string{"area", "bathrooms", "bedrooms", "stories", "parking"} {
		if _, ok := decoded[name].(float64); !ok {
			t.Fatalf("expected %s to encode as a JSON number, got %T", name, decoded[name])
		}
	}
	for _, name := range []string{"mainroad", "guestroom", "basement", "hotwaterheating", "airconditioning", "prefarea"} {
		if _, ok := decoded[name].(string); !ok {
			t.Fatalf("expected %s to stay a string, got %T", name, decoded[name])
		}
	}
}

func TestMarshalJSON_PreservesOrder(t *testing.T) {
	snap := snapshot.Build(scenarioFields())
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"area":3000,"bedrooms":3,"bathrooms":2,"stories":2,"parking":1,` +
		`"mainroad":"1","guestroom":"0","basement":"0","hotwaterheating":"0",` +
		`"airconditioning":"1","prefarea":"1"}`
	if got := string(raw); got != want {
		t.Fatalf("unexpected payload:\nwant %s\ngot  %s", want, got)
	}
}

func TestBuild_FlagValuesPassThroughUnchanged(t *testing.T) {
	snap := snapshot.Build([]snapshot.Field{
		{Name: "mainroad", Value: "1"},
		{Name: "guestroom", Value: "yes"},
		{Name: "prefarea", Value: ""},
	})
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"mainroad":"1","guestroom":"yes","prefarea":""}`
	if string(raw) != want {
		t.Fatalf("want %s, got %s", want, raw)
	}
}

func TestBuild_UnparsableNumbersBecomeNull(t *testing.T) {
	snap := snapshot.Build([]snapshot.Field{
		{Name: "area", Value: "big"},
		{Name: "parking", Value: ""},
		{Name: "bathrooms", Value: "Infinity"},
	})
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"area":null,"parking":null,"bathrooms":null}`
	if string(raw) != want {
		t.Fatalf("want %s, got %s", want, raw)
	}
}

func TestBuild_OversizedIntegersBecomeFloats(t *testing.T) {
	snap := snapshot.Build([]snapshot.Field{
		{Name: "bedrooms", Value: "99999999999999999999"},
		{Name: "stories", Value: "-0x10000000000000000"},
		{Name: "parking", Value: "9223372036854775807"},
	})
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"bedrooms":100000000000000000000,"stories":-18446744073709552000,"parking":9223372036854775807}`
	if string(raw) != want {
		t.Fatalf("want %s, got %s", want, raw)
	}
}

func TestBuild_DuplicateNameKeepsFirstPositionLastValue(t *testing.T) {
	snap := snapshot.Build([]snapshot.Field{
		{Name: "area", Value: "100"},
		{Name: "name", Value: "first"},
		{Name: "area", Value: "250"},
	})

	want := []snapshot.Entry{
		{Name: "area", Value: 250.0},
		{Name: "name", Value: "first"},
	}
	if diff := cmp.Diff(want, snap.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", snap.Len())
	}
}

func TestBuild_EmptyFormEncodesEmptyObject(t *testing.T) {
	raw, err := json.Marshal(snapshot.Build(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "{}" {
		t.Fatalf("want {}, got %s", raw)
	}
}

func TestFromValues_SortsNamesAndUsesLastValue(t *testing.T) {
	values := url.Values{
		"stories": {"1", "3"},
		"area":    {"900"},
	}
	snap := snapshot.FromValues(values)

	want := []snapshot.Entry{
		{Name: "area", Value: 900.0},
		{Name: "stories", Value: int64(3)},
	}
	if diff := cmp.Diff(want, snap.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAndMap(t *testing.T) {
	snap := snapshot.Build(scenarioFields())

	v, ok := snap.Get("bedrooms")
	if !ok || v != int64(3) {
		t.Fatalf("expected bedrooms=3, got %v (%v)", v, ok)
	}
	if _, ok := snap.Get("missing"); ok {
		t.Fatalf("expected missing field to be absent")
	}
	if got := snap.Map()["airconditioning"]; got != "1" {
		t.Fatalf("expected airconditioning=\"1\", got %v", got)
	}
}

func TestCoercionFor(t *testing.T) {
	cases := map[string]snapshot.Coercion{
		"area":             snapshot.CoerceFloat,
		"bathrooms":        snapshot.CoerceFloat,
		"bedrooms":         snapshot.CoerceInt,
		"stories":          snapshot.CoerceInt,
		"parking":          snapshot.CoerceInt,
		"hotwaterheating":  snapshot.CoerceFlag,
		"furnishingstatus": snapshot.CoerceRaw,
		"":                 snapshot.CoerceRaw,
	}
	for name, want := range cases {
		if got := snapshot.CoercionFor(name); got != want {
			t.Errorf("CoercionFor(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestCoercedFields(t *testing.T) {
	want := []string{
		"airconditioning", "area", "basement", "bathrooms", "bedrooms", "guestroom",
		"hotwaterheating", "mainroad", "parking", "prefarea", "stories",
	}
	if diff := cmp.Diff(want, snapshot.CoercedFields()); diff != "" {
		t.Fatalf("coerced fields mismatch (-want +got):\n%s", diff)
	}
}
