package checkgroup

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestGroup builds a group with one checkbox per label, registered in order.
func newTestGroup(cfg Config, labels []string, opts ...Option) (*Group, []*Checkbox) {
	g := New(cfg, opts...)
	boxes := make([]*Checkbox, len(labels))
	for i, label := range labels {
		boxes[i] = NewCheckbox(label, strings.ToLower(label))
	}
	nodes := make([]any, len(boxes))
	for i, b := range boxes {
		nodes[i] = b
	}
	g.Slot().Assign(nodes...)
	return g, boxes
}

// recordEvents captures group events as "kind:label".
func recordEvents(g *Group) *[]string {
	var got []string
	for _, kind := range EventKinds {
		g.On(kind, func(ev Event) {
			label := "?"
			if cb, ok := ev.Target.(*Checkbox); ok {
				label = cb.Label()
			}
			got = append(got, string(ev.Kind)+":"+label)
		})
	}
	return &got
}

func TestCheckValidityRequiredEmptyGroup(t *testing.T) {
	g := New(Config{Required: true})
	if g.CheckValidity() {
		t.Error("CheckValidity() = true for required group without children, want false")
	}
	if g.Valid() {
		t.Error("Valid() should reflect the last check")
	}
}

func TestCheckValidityRequired(t *testing.T) {
	tests := []struct {
		name    string
		checked []bool
		want    bool
	}{
		{"nothing checked", []bool{false, false, false}, false},
		{"first checked", []bool{true, false, false}, true},
		{"last checked", []bool{false, false, true}, true},
		{"all checked", []bool{true, true, true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, boxes := newTestGroup(Config{Required: true, Multiple: true}, []string{"A", "B", "C"})
			for i, c := range tt.checked {
				boxes[i].SetChecked(c)
			}
			if got := g.CheckValidity(); got != tt.want {
				t.Errorf("CheckValidity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckValidityNotRequired(t *testing.T) {
	g, _ := newTestGroup(Config{}, []string{"A", "B"})
	if !g.CheckValidity() {
		t.Error("optional group should be valid with nothing checked")
	}
}

func TestReadOnlySuppressesRequired(t *testing.T) {
	g, boxes := newTestGroup(Config{Required: true, ReadOnly: true}, []string{"A", "B"})
	if !g.CheckValidity() {
		t.Error("read-only group with nothing checked should be valid")
	}

	boxes[0].SetChecked(true)
	if !g.CheckValidity() {
		t.Error("read-only group with a checked child should be valid")
	}

	empty := New(Config{Required: true, ReadOnly: true})
	if !empty.CheckValidity() {
		t.Error("read-only empty group should be valid")
	}
}

func TestCustomValidityOverridesChildren(t *testing.T) {
	g, boxes := newTestGroup(Config{Required: true}, []string{"A", "B"})
	boxes[0].SetChecked(true)

	g.SetCustomValidity("x")
	if g.CheckValidity() {
		t.Error("custom validity message should make the group invalid")
	}
	if !g.ShowError() {
		t.Error("SetCustomValidity should report validity immediately")
	}
	if g.ErrorMessage() != "x" {
		t.Errorf("ErrorMessage() = %q, want %q", g.ErrorMessage(), "x")
	}

	g.SetCustomValidity("")
	if !g.CheckValidity() {
		t.Error("clearing the custom message should restore structural validity")
	}
	if g.ShowError() {
		t.Error("clearing the custom message should hide the error")
	}
}

// A read-only group ignores a custom validity message that was set on it.
func TestReadOnlyIgnoresCustomValidity(t *testing.T) {
	g, _ := newTestGroup(Config{Required: true}, []string{"A"})
	g.SetCustomValidity("Server rejected the selection")
	if g.Valid() {
		t.Fatal("editable group with custom message should be invalid")
	}

	g.SetReadOnly(true)
	if !g.CheckValidity() {
		t.Error("read-only group with custom message should be valid")
	}
	if !g.ReportValidity() || g.ShowError() {
		t.Error("read-only group should report valid and hide the error")
	}
	if g.CustomValidity() != "Server rejected the selection" {
		t.Error("read-only must not discard the custom message")
	}
	if g.ErrorMessage() != "Server rejected the selection" {
		t.Errorf("ErrorMessage() = %q", g.ErrorMessage())
	}

	g.SetReadOnly(false)
	if g.CheckValidity() {
		t.Error("custom message should apply again once editable")
	}
}

func TestSingleSelectUnchecksSiblings(t *testing.T) {
	g, boxes := newTestGroup(Config{}, []string{"A", "B"})
	events := recordEvents(g)

	boxes[1].SetChecked(true)
	boxes[0].Click()

	if !boxes[0].Checked() {
		t.Error("A should be checked")
	}
	if boxes[1].Checked() {
		t.Error("B should have been unchecked")
	}

	want := []string{"click:A", "input:A", "change:B", "change:A"}
	if diff := cmp.Diff(want, *events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleSelectWithoutDeselectEvents(t *testing.T) {
	g, boxes := newTestGroup(Config{}, []string{"A", "B"}, WithDeselectEvents(false))
	var changes []string
	g.On(EventChange, func(ev Event) {
		changes = append(changes, ev.Target.(*Checkbox).Label())
	})

	boxes[1].SetChecked(true)
	boxes[0].Click()

	if boxes[1].Checked() {
		t.Error("B should have been unchecked")
	}
	if diff := cmp.Diff([]string{"A"}, changes); diff != "" {
		t.Errorf("change targets mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleSelectSkipsUncheckedSiblings(t *testing.T) {
	g, boxes := newTestGroup(Config{}, []string{"A", "B", "C"})
	var changes []string
	g.On(EventChange, func(ev Event) {
		changes = append(changes, ev.Target.(*Checkbox).Label())
	})

	boxes[2].SetChecked(true)
	boxes[0].Click()

	if diff := cmp.Diff([]string{"C", "A"}, changes); diff != "" {
		t.Errorf("change targets mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleSelectUncheckLeavesOthers(t *testing.T) {
	_, boxes := newTestGroup(Config{}, []string{"A", "B"})
	boxes[0].SetChecked(true)
	boxes[1].SetChecked(true) // programmatic, no enforcement

	boxes[0].Click() // unchecks A

	if boxes[0].Checked() {
		t.Error("A should be unchecked")
	}
	if !boxes[1].Checked() {
		t.Error("unchecking a child must not touch its siblings")
	}
}

func TestMultipleKeepsSiblings(t *testing.T) {
	g, boxes := newTestGroup(Config{Multiple: true}, []string{"A", "B"})
	events := recordEvents(g)

	boxes[1].SetChecked(true)
	boxes[0].Click()

	if !boxes[0].Checked() || !boxes[1].Checked() {
		t.Error("both children should be checked in multiple mode")
	}
	want := []string{"click:A", "input:A", "change:A"}
	if diff := cmp.Diff(want, *events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageWhenValueMissing(t *testing.T) {
	g := New(Config{})
	if g.MessageWhenValueMissing() != DefaultMessageWhenValueMissing {
		t.Errorf("default message = %q", g.MessageWhenValueMissing())
	}

	g.SetMessageWhenValueMissing("Pick one.")
	if g.ErrorMessage() != "Pick one." {
		t.Errorf("ErrorMessage() = %q, want %q", g.ErrorMessage(), "Pick one.")
	}

	g.SetMessageWhenValueMissing("")
	if g.MessageWhenValueMissing() != "Complete this field." {
		t.Errorf("empty message should reset, got %q", g.MessageWhenValueMissing())
	}

	g.SetCustomValidity("custom")
	if g.ErrorMessage() != "custom" {
		t.Errorf("ErrorMessage() = %q, want custom message", g.ErrorMessage())
	}
}

func TestReportValidityScenario(t *testing.T) {
	g, boxes := newTestGroup(Config{Required: true}, []string{"A", "B"})

	if g.Reported() || g.ShowError() {
		t.Fatal("group should start pristine")
	}

	if g.ReportValidity() {
		t.Error("ReportValidity() = true, want false")
	}
	if !g.ShowError() {
		t.Error("ShowError() should be true after a failed report")
	}
	if !g.Reported() {
		t.Error("Reported() should be true after ReportValidity")
	}

	boxes[0].Click()
	if !g.CheckValidity() {
		t.Error("CheckValidity() = false after checking A, want true")
	}
	if !g.ShowError() {
		t.Error("CheckValidity must not change error visibility")
	}

	if !g.ReportValidity() || g.ShowError() {
		t.Error("ReportValidity should hide the error once valid")
	}
}

func TestBlurReportsValidity(t *testing.T) {
	g, boxes := newTestGroup(Config{Required: true}, []string{"A", "B"})
	events := recordEvents(g)

	boxes[1].Focus()
	boxes[1].Blur()

	if !g.ShowError() {
		t.Error("losing focus should surface the required error")
	}
	want := []string{"focus:B", "blur:B"}
	if diff := cmp.Diff(want, *events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestBlurValidityBeforeListeners(t *testing.T) {
	g, boxes := newTestGroup(Config{Required: true}, []string{"A"})
	var showErrorAtBlur bool
	g.On(EventBlur, func(Event) { showErrorAtBlur = g.ShowError() })

	boxes[0].Dispatch(EventBlur)
	if !showErrorAtBlur {
		t.Error("validity should be reported before blur listeners run")
	}
}

func TestFocusAndBlurOperations(t *testing.T) {
	g, boxes := newTestGroup(Config{}, []string{"A", "B"})
	events := recordEvents(g)

	g.Focus()
	if !boxes[0].Focused() || boxes[1].Focused() {
		t.Error("Focus should focus only the first child")
	}

	g.Blur()
	if boxes[0].Focused() {
		t.Error("Blur should remove focus from every child")
	}

	want := []string{"focus:A", "blur:A"}
	if diff := cmp.Diff(want, *events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	empty := New(Config{})
	empty.Focus() // no children: no-op
	empty.Blur()
}

func TestClear(t *testing.T) {
	g, boxes := newTestGroup(Config{Required: true, Multiple: true}, []string{"A", "B"})
	events := recordEvents(g)
	boxes[0].SetChecked(true)
	boxes[1].SetChecked(true)
	g.SetCustomValidity("keep me")
	validBefore := g.Valid()

	g.Clear()

	for i, b := range boxes {
		if b.Checked() {
			t.Errorf("child %d still checked after Clear", i)
		}
	}
	if g.CustomValidity() != "keep me" {
		t.Error("Clear must not touch the custom message")
	}
	if g.Valid() != validBefore {
		t.Error("Clear must not recompute validity")
	}
	if len(*events) != 0 {
		t.Errorf("Clear should not emit events, got %v", *events)
	}
}

func TestAggregateValidity(t *testing.T) {
	g, boxes := newTestGroup(Config{}, []string{"A", "B"}, WithAggregateValidity(true))
	if !g.CheckValidity() {
		t.Fatal("group with valid children should be valid")
	}

	boxes[1].SetCustomValidity("bad")
	if g.CheckValidity() {
		t.Error("an invalid child should fail the group")
	}

	g.SetReadOnly(true)
	if !g.CheckValidity() {
		t.Error("read-only group should ignore child validity")
	}

	plain, plainBoxes := newTestGroup(Config{}, []string{"A"})
	plainBoxes[0].SetCustomValidity("bad")
	if !plain.CheckValidity() {
		t.Error("child validity is ignored unless aggregation is enabled")
	}
}

func TestSetReadOnlyPropagates(t *testing.T) {
	g, boxes := newTestGroup(Config{}, []string{"A", "B"})
	for _, b := range boxes {
		if b.ReadOnly() {
			t.Fatal("children should start editable")
		}
	}

	g.SetReadOnly(true)
	for i, b := range boxes {
		if !b.ReadOnly() {
			t.Errorf("child %d should be read-only", i)
		}
		if b.Click() {
			t.Errorf("child %d accepted a click while read-only", i)
		}
	}

	late := NewCheckbox("C", "c")
	g.Register(late)
	if !late.ReadOnly() {
		t.Error("children projected later should receive the read-only flag")
	}

	g.SetReadOnly(false)
	if boxes[0].ReadOnly() || late.ReadOnly() {
		t.Error("clearing read-only should propagate")
	}
}

func TestBackReferenceBinding(t *testing.T) {
	g, boxes := newTestGroup(Config{ReadOnly: true}, []string{"A", "B"}, WithBinding(BindBackReference))
	for i, b := range boxes {
		if b.Group() != g {
			t.Errorf("child %d not bound to the group", i)
		}
		if !b.ReadOnly() {
			t.Errorf("child %d should pull read-only from the group", i)
		}
	}

	g.Unregister(boxes[1])
	if boxes[1].Group() != nil {
		t.Error("a child leaving the slot should be unbound")
	}
	if boxes[1].ReadOnly() {
		t.Error("an unbound child should no longer be read-only")
	}
}

func TestVariantAndLabel(t *testing.T) {
	g := New(Config{Label: "Toppings"})
	if g.Variant() != VariantLabelStacked {
		t.Errorf("default variant = %q", g.Variant())
	}
	if !g.ShowLabel() {
		t.Error("stacked variant with a label should show it")
	}

	g.SetVariant(VariantLabelHidden)
	if g.ShowLabel() {
		t.Error("hidden variant should not show the label")
	}

	g.SetVariant("sideways")
	if g.Variant() != VariantLabelStacked {
		t.Errorf("unknown variant should coerce to default, got %q", g.Variant())
	}

	g.SetLabel("")
	if g.ShowLabel() {
		t.Error("empty label should not be shown")
	}
}

func TestFormElementClass(t *testing.T) {
	g, _ := newTestGroup(Config{Required: true}, []string{"A"})
	if got := g.FormElementClass(); got != "slds-form-element" {
		t.Errorf("pristine class = %q", got)
	}

	g.ReportValidity()
	if got := g.FormElementClass(); got != "slds-form-element slds-has-error" {
		t.Errorf("error class = %q", got)
	}

	g.SetReadOnly(true)
	if got := g.FormElementClass(); got != "slds-form-element slds-has-error read-only" {
		t.Errorf("read-only class = %q", got)
	}

	g.ReportValidity()
	if got := g.FormElementClass(); got != "slds-form-element read-only" {
		t.Errorf("read-only valid class = %q", got)
	}
}

func TestConfigSetters(t *testing.T) {
	g := New(Config{})
	g.SetLabel("Days")
	g.SetRequired(true)
	g.SetMultiple(true)
	g.SetReadOnly(true)

	want := Config{
		Label:                   "Days",
		ReadOnly:                true,
		Required:                true,
		Multiple:                true,
		MessageWhenValueMissing: DefaultMessageWhenValueMissing,
		Variant:                 VariantLabelStacked,
	}
	if diff := cmp.Diff(want, g.Config()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoggerReceivesDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g, _ := newTestGroup(Config{Label: "Toppings"}, []string{"A"}, WithLogger(logger))
	g.Register("stray text")
	g.ReportValidity()

	out := buf.String()
	for _, want := range []string{"slot rescanned", "removed non-checkable node", "validity reported", "label=Toppings"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
