package view

import (
	"bytes"
	"io"

	"github.com/vango-dev/hxstate/pkg/render"
	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/vdom"
)

// Config configures a Composer.
type Config struct {
	// CounterTitle and TodoTitle are the document titles of the two pages.
	CounterTitle string
	TodoTitle    string

	// ClientScript overrides the htmx script URL.
	ClientScript string

	// Lang is the document language. Default: "en".
	Lang string

	// Styles are inline stylesheets added to every page. Nil means
	// DefaultStyles; an empty slice adds none.
	Styles []string

	// Pretty indents output. Development only.
	Pretty bool
}

// DefaultStyles marks done and editing to-do items.
const DefaultStyles = `.todo-list li.completed label{text-decoration:line-through;opacity:.6}` +
	`.todo-list li.editing .edit{width:100%}` +
	`.filters a.selected{font-weight:bold}`

// Composer turns state into HTML. It has no mutable state and is safe for
// concurrent use.
type Composer struct {
	config   Config
	renderer *render.Renderer
}

// NewComposer creates a Composer.
func NewComposer(config Config) *Composer {
	if config.CounterTitle == "" {
		config.CounterTitle = "Counter"
	}
	if config.TodoTitle == "" {
		config.TodoTitle = "todos"
	}
	if config.Styles == nil {
		config.Styles = []string{DefaultStyles}
	}
	return &Composer{
		config:   config,
		renderer: render.NewRenderer(render.RendererConfig{Pretty: config.Pretty}),
	}
}

// Fragments writes frags to w in order, as one partial response body.
func (c *Composer) Fragments(w io.Writer, frags ...Fragment) error {
	var buf bytes.Buffer
	for _, f := range frags {
		n, err := f.Node()
		if err != nil {
			return err
		}
		if err := c.renderer.RenderToWriter(&buf, n); err != nil {
			return err
		}
	}
	_, err := buf.WriteTo(w)
	return err
}

// CounterPage writes the full counter page. A nil record shows the name
// form, otherwise the greeting and the counter.
func (c *Composer) CounterPage(w io.Writer, rec *state.Counter) error {
	var content *vdom.VNode
	if rec == nil {
		content = nameForm()
	} else {
		content = vdom.Fragment(nameHeader(rec.Name), counter(rec.Count))
	}
	return c.page(w, c.config.CounterTitle, vdom.Main(vdom.ID("counter-app"), content))
}

// TodoPage writes the full to-do page. filter selects which items are
// listed; the remaining count always covers the whole list.
func (c *Composer) TodoPage(w io.Writer, list state.TodoList, filter state.Filter) error {
	body := vdom.Section(vdom.ID("todo-app"), vdom.Class("todoapp"),
		vdom.Header(vdom.Class("header"),
			vdom.H1(vdom.Text("todos")),
			newTodoForm(),
		),
		vdom.Section(vdom.Class("main"), todoList(list.Filter(filter))),
		vdom.Footer(vdom.Class("footer"),
			itemCount(list.Remaining()),
			filterLinks(filter),
			currentFilter(filter),
			clearCompletedButton(),
		),
	)
	return c.page(w, c.config.TodoTitle, body)
}

func (c *Composer) page(w io.Writer, title string, body *vdom.VNode) error {
	var buf bytes.Buffer
	err := c.renderer.RenderPage(&buf, render.PageData{
		Title:        title,
		Lang:         c.config.Lang,
		Body:         body,
		ClientScript: c.config.ClientScript,
		Styles:       c.config.Styles,
	})
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}
