package checkgroup

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips markup from user supplied text and escapes the rest
// for use as element content.
func sanitizeText(s string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy.Sanitize(s)
}

// Render implements templ.Component.
func (g *Group) Render(ctx context.Context, w io.Writer) error {
	return g.Component(nil).Render(ctx, w)
}

// Component renders the group as a fieldset with attrs added to the
// container. Children that implement templ.Component are rendered in order
// inside the control wrapper; others are skipped.
func (g *Group) Component(attrs templ.Attributes) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<fieldset class="`)
		sb.WriteString(templ.EscapeString(g.FormElementClass()))
		sb.WriteString(`"`)
		writeAttrs(&sb, attrs)
		sb.WriteString(`>`)

		if g.cfg.Label != "" {
			legendClass := "slds-form-element__legend slds-form-element__label"
			if !g.ShowLabel() {
				legendClass += " slds-assistive-text"
			}
			fmt.Fprintf(&sb, `<legend class="%s">`, legendClass)
			if g.cfg.Required {
				sb.WriteString(`<abbr class="slds-required" title="required">*</abbr>`)
			}
			sb.WriteString(sanitizeText(g.cfg.Label))
			sb.WriteString(`</legend>`)
		}

		sb.WriteString(`<div class="slds-form-element__control">`)
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}

		for _, child := range g.children {
			if c, ok := child.(templ.Component); ok {
				if err := c.Render(ctx, w); err != nil {
					return err
				}
			}
		}

		sb.Reset()
		sb.WriteString(`</div>`)
		if g.showError {
			sb.WriteString(`<div class="slds-form-element__help" role="alert">`)
			sb.WriteString(sanitizeText(g.ErrorMessage()))
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</fieldset>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func renderCheckbox(c *Checkbox) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<label class="slds-checkbox"><input type="checkbox"`)
		if c.name != "" {
			fmt.Fprintf(&sb, ` name="%s"`, templ.EscapeString(c.name))
		}
		fmt.Fprintf(&sb, ` value="%s"`, templ.EscapeString(c.value))
		if c.checked {
			sb.WriteString(` checked`)
		}
		if c.ReadOnly() {
			sb.WriteString(` disabled aria-readonly="true"`)
		}
		writeAttrs(&sb, c.attrs)
		sb.WriteString(`><span class="slds-checkbox_faux"></span><span class="slds-form-element__label">`)
		sb.WriteString(sanitizeText(c.label))
		sb.WriteString(`</span></label>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// writeAttrs writes attrs in key order. Boolean true renders as a bare
// attribute, false omits it.
func writeAttrs(sb *strings.Builder, attrs templ.Attributes) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := attrs[k].(type) {
		case bool:
			if v {
				sb.WriteString(" ")
				sb.WriteString(templ.EscapeString(k))
			}
		case string:
			fmt.Fprintf(sb, ` %s="%s"`, templ.EscapeString(k), templ.EscapeString(v))
		default:
			fmt.Fprintf(sb, ` %s="%s"`, templ.EscapeString(k), templ.EscapeString(fmt.Sprint(v)))
		}
	}
}
