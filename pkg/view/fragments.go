package view

import (
	"strconv"

	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/vdom"
)

// MaxInputLength bounds names and labels, in runes.
const MaxInputLength = 256

func nameForm() *vdom.VNode {
	return vdom.Form(vdom.ID(IDNameForm),
		vdom.HxPost("/name"),
		vdom.HxSwap(vdom.SwapOuterHTML),
		vdom.Label(vdom.For("name"), vdom.Text("What's your name?")),
		vdom.Input(vdom.ID("name"), vdom.Name("name"), vdom.Type("text"), vdom.Required(), vdom.Autofocus(),
			vdom.Autocomplete("off"), vdom.MaxLength(MaxInputLength)),
		vdom.Label(vdom.For("count"), vdom.Text("Start counting from")),
		vdom.Input(vdom.ID("count"), vdom.Name("count"), vdom.Type("number"), vdom.AttrKV("min", "0"),
			vdom.AttrKV("max", strconv.FormatUint(state.MaxCount, 10)), vdom.Value("0")),
		vdom.Button(vdom.Type("submit"), vdom.Text("Start")),
	)
}

func nameHeader(name string) *vdom.VNode {
	return vdom.H1(vdom.ID(IDNameHeader), vdom.Textf("Hello, %s!", name))
}

func counter(n uint64) *vdom.VNode {
	return vdom.Div(vdom.ID(IDCounter),
		vdom.Span(vdom.Class("count"), vdom.AriaLive("polite"), vdom.Textf("%d", n)),
		vdom.Button(
			vdom.HxPost("/clicked"),
			vdom.HxTarget("#"+IDCounter),
			vdom.HxSwap(vdom.SwapOuterHTML),
			vdom.Text("+1"),
		),
	)
}

func todoList(items []state.Item) *vdom.VNode {
	return vdom.Ul(vdom.ID(IDTodoList), vdom.Class("todo-list"),
		vdom.Range(items, func(it state.Item, _ int) *vdom.VNode { return todoItem(it) }),
	)
}

func todoItem(it state.Item) *vdom.VNode {
	id := ItemElementID(it.ID)
	target := "#" + id
	return vdom.Li(vdom.ID(id), vdom.ClassIf(it.Done, "completed"),
		vdom.Input(vdom.Type("checkbox"), vdom.Class("toggle"),
			vdom.AttrIf(it.Done, vdom.Checked()),
			vdom.HxPatch("/todos/"+it.ID),
			vdom.HxTarget(target),
			vdom.HxSwap(vdom.SwapOuterHTML),
			includeFilter(),
		),
		vdom.Label(
			vdom.HxGet("/todos/edit/"+it.ID),
			vdom.HxTarget(target),
			vdom.HxSwap(vdom.SwapOuterHTML),
			vdom.HxTrigger("dblclick"),
			vdom.Text(it.Label),
		),
		vdom.Button(vdom.Class("destroy"), vdom.AriaLabel("Delete"),
			vdom.HxDelete("/todos/"+it.ID),
			vdom.HxTarget(target),
			vdom.HxSwap(vdom.SwapDelete),
			vdom.Text("×"),
		),
	)
}

func editItem(it state.Item) *vdom.VNode {
	id := ItemElementID(it.ID)
	return vdom.Li(vdom.ID(id), vdom.Class("editing"),
		vdom.Form(
			vdom.HxPost("/todos/update/"+it.ID),
			vdom.HxTarget("#"+id),
			vdom.HxSwap(vdom.SwapOuterHTML),
			includeFilter(),
			vdom.Input(vdom.Class("edit"), vdom.Name("todo"), vdom.Type("text"), vdom.Value(it.Label),
				vdom.Required(), vdom.Autofocus(), vdom.MaxLength(MaxInputLength)),
		),
	)
}

func itemCount(remaining int) *vdom.VNode {
	unit := "items"
	if remaining == 1 {
		unit = "item"
	}
	return vdom.Span(vdom.ID(IDItemCount), vdom.Class("todo-count"),
		vdom.Strong(vdom.Textf("%d", remaining)),
		vdom.Textf(" %s left", unit),
	)
}

func newTodoForm() *vdom.VNode {
	return vdom.Form(vdom.ID(IDNewTodo),
		vdom.HxPost("/todos"),
		vdom.HxTarget("#"+IDTodoList),
		vdom.HxSwap(vdom.SwapBeforeEnd),
		includeFilter(),
		vdom.AttrKV("hx-on::after-request", "this.reset()"),
		vdom.Input(vdom.Class("new-todo"), vdom.Name("todo"), vdom.Type("text"),
			vdom.Placeholder("What needs to be done?"),
			vdom.Required(), vdom.Autofocus(), vdom.Autocomplete("off"), vdom.MaxLength(MaxInputLength)),
	)
}

func currentFilter(f state.Filter) *vdom.VNode {
	return vdom.Input(vdom.ID(IDCurrentFilter), vdom.Name("filter"), vdom.Type("hidden"), vdom.Value(string(f)))
}

func includeFilter() vdom.Attr {
	return vdom.HxInclude("#" + IDCurrentFilter)
}

func filterLinks(current state.Filter) *vdom.VNode {
	link := func(f state.Filter, label string) *vdom.VNode {
		return vdom.Li(vdom.A(vdom.Href("/?filter="+string(f)), vdom.ClassIf(f == current, "selected"), vdom.Text(label)))
	}
	return vdom.Ul(vdom.Class("filters"),
		link(state.FilterAll, "All"),
		link(state.FilterActive, "Active"),
		link(state.FilterCompleted, "Completed"),
	)
}

func clearCompletedButton() *vdom.VNode {
	return vdom.Button(vdom.Class("clear-completed"),
		vdom.HxPost("/todos/clear-completed"),
		vdom.HxTarget("#"+IDTodoList),
		vdom.HxSwap(vdom.SwapOuterHTML),
		includeFilter(),
		vdom.Text("Clear completed"),
	)
}
