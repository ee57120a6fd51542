package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-priceform/pkg/formspec"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	inputPos     int
	selectPos    int
	inputCfgs    []InputConfig
	selectCfgs   []SelectConfig
	infoMessages []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func testContract() formspec.Contract {
	return formspec.Contract{
		Fields: []formspec.FieldSpec{
			{Name: "area", Label: "Area", Kind: formspec.KindNumber},
			{Name: "bedrooms", Label: "Bedrooms", Kind: formspec.KindInteger, Default: "2"},
			{
				Name:    "mainroad",
				Label:   "Main road",
				Kind:    formspec.KindChoice,
				Default: "0",
				Choices: []formspec.Choice{{Value: "1", Label: "Yes"}, {Value: "0", Label: "No"}},
			},
		},
	}
}

func TestCollect_PromptsForMissingFields(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{" 3000 "},
		selectIdx: []int{0},
	}
	collector := NewCollector(WithDriver(driver))

	fields, err := collector.Collect(context.Background(), testContract(), []snapshot.Field{
		{Name: "bedrooms", Value: "4"},
		{Name: "name", Value: "Ada"},
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := []snapshot.Field{
		{Name: "area", Value: "3000"},
		{Name: "bedrooms", Value: "4"},
		{Name: "mainroad", Value: "1"},
		{Name: "name", Value: "Ada"},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if driver.inputPos != 1 || driver.selectPos != 1 {
		t.Fatalf("prompts not consumed as expected")
	}
	if diff := cmp.Diff([]string{"Forwarding name as given"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if got := driver.selectCfgs[0]; got.DefaultIndex != 1 || !cmp.Equal(got.Options, []string{"Yes", "No"}) {
		t.Fatalf("unexpected select config %+v", got)
	}
}

func TestCollect_EmptyAnswerIsForwarded(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "2"}, selectIdx: []int{1}}
	fields, err := NewCollector(WithDriver(driver)).Collect(context.Background(), testContract(), nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if fields[0].Value != "" {
		t.Fatalf("expected empty area to be forwarded, got %q", fields[0].Value)
	}
	if driver.inputCfgs[1].Default != "2" {
		t.Fatalf("expected bedrooms default to be offered")
	}
}

func TestCollect_PropagatesDriverErrors(t *testing.T) {
	driver := &stubDriver{}
	_, err := NewCollector(WithDriver(driver)).Collect(context.Background(), testContract(), nil)
	if err == nil {
		t.Fatalf("expected error when driver fails")
	}
}

func TestCollect_RejectsOutOfRangeSelection(t *testing.T) {
	driver := &stubDriver{inputs: []string{"1", "1"}, selectIdx: []int{5}}
	_, err := NewCollector(WithDriver(driver)).Collect(context.Background(), testContract(), nil)
	if err == nil {
		t.Fatalf("expected error for invalid selection")
	}
}
