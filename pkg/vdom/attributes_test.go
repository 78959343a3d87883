package vdom

import "testing"

func TestAttributes(t *testing.T) {
	tests := []struct {
		name  string
		attr  Attr
		key   string
		value any
	}{
		{"ID", ID("main"), "id", "main"},
		{"Class multiple", Class("card", "active"), "class", "card active"},
		{"AriaLive", AriaLive("polite"), "aria-live", "polite"},
		{"Name", Name("label"), "name", "label"},
		{"Value", Value("x"), "value", "x"},
		{"Type", Type("checkbox"), "type", "checkbox"},
		{"Checked", Checked(), "checked", true},
		{"Required", Required(), "required", true},
		{"MaxLength", MaxLength(256), "maxlength", 256},
		{"AttrKV", AttrKV("hx-ext", "json"), "hx-ext", "json"},
		{"HxGet", HxGet("/todos/edit/1"), "hx-get", "/todos/edit/1"},
		{"HxPost", HxPost("/todos"), "hx-post", "/todos"},
		{"HxPatch", HxPatch("/todos/1"), "hx-patch", "/todos/1"},
		{"HxDelete", HxDelete("/todos/1"), "hx-delete", "/todos/1"},
		{"HxTarget", HxTarget("#todo-list"), "hx-target", "#todo-list"},
		{"HxSwap", HxSwap(SwapBeforeEnd), "hx-swap", "beforeend"},
		{"HxTrigger", HxTrigger("submit"), "hx-trigger", "submit"},
		{"HxInclude", HxInclude("#current-filter"), "hx-include", "#current-filter"},
		{"HxSwapOOB", HxSwapOOB(), "hx-swap-oob", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("Key = %v, want %v", tt.attr.Key, tt.key)
			}
			if tt.attr.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.attr.Value, tt.value)
			}
		})
	}
}

func TestConditionalAttributes(t *testing.T) {
	if a := ClassIf(true, "done"); a.Key != "class" || a.Value != "done" {
		t.Errorf("ClassIf(true) = %+v", a)
	}
	if !ClassIf(false, "done").IsEmpty() {
		t.Error("ClassIf(false) should be empty")
	}
	if !AttrIf(false, Checked()).IsEmpty() {
		t.Error("AttrIf(false) should be empty")
	}
}
