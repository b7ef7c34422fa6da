package checkgroup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// TestResult holds the response of a simulated component request.
//
// Provides convenience methods for asserting on HTML content, headers,
// status codes and triggered group events.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	TriggeredEvents []string
}

// TestAction simulates a request against h, usually a Registry handler.
//
// This exercises the full HTTP lifecycle including props decoding,
// hydration, the action and the response rendering:
//
//	result := checkgroup.TestAction(reg.Handler(), comp.Prefix()+"/toggle", "POST", map[string]string{
//	    "p": props,
//	    "i": "0",
//	})
//	if !result.HasEvent("checkgroup:change") {
//	    t.Fatal("expected a change event")
//	}
func TestAction(h http.Handler, actionURL, method string, formData map[string]string) *TestResult {
	return NewTestRequest(method, actionURL).WithFormValues(formData).Execute(h)
}

// TestGet simulates a GET request (render) against h.
//
//	result := checkgroup.TestGet(reg.Handler(), comp.Prefix()+"/")
func TestGet(h http.Handler, url string) *TestResult {
	return TestAction(h, url, http.MethodGet, nil)
}

// TestPost simulates an HTMX POST request against h.
func TestPost(h http.Handler, url string, formData map[string]string) *TestResult {
	return TestAction(h, url, http.MethodPost, formData)
}

// Props extracts the first encoded props value from the rendered HTML.
// It returns "" when the response carries none.
func (r *TestResult) Props() string {
	const marker = `&#34;p&#34;:&#34;`
	i := strings.Index(r.HTML, marker)
	if i == -1 {
		return ""
	}
	rest := r.HTML[i+len(marker):]
	end := strings.Index(rest, "&#34;")
	if end == -1 {
		return ""
	}
	return rest[:end]
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if e == event {
			return true
		}
	}
	return false
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// parseTriggerHeader parses the HX-Trigger header value into event names.
// The header can be a simple event name, a comma separated list or JSON.
func parseTriggerHeader(trigger string) []string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil
	}

	if strings.HasPrefix(trigger, "{") {
		var events []string
		// Track depth to only extract top-level keys
		depth := 0
		inString := false
		stringStart := -1

		for i := 0; i < len(trigger); i++ {
			c := trigger[i]

			if inString && c == '\\' && i+1 < len(trigger) {
				i++
				continue
			}

			switch {
			case c == '"' && !inString:
				inString = true
				stringStart = i + 1
			case c == '"':
				inString = false
				if depth == 1 {
					j := i + 1
					for j < len(trigger) && (trigger[j] == ' ' || trigger[j] == '\t') {
						j++
					}
					if j < len(trigger) && trigger[j] == ':' {
						events = append(events, trigger[stringStart:i])
					}
				}
				stringStart = -1
			case !inString && (c == '{' || c == '['):
				depth++
			case !inString && (c == '}' || c == ']'):
				depth--
			}
		}
		return events
	}

	parts := strings.Split(trigger, ",")
	events := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			events = append(events, p)
		}
	}
	return events
}

// TestRequestBuilder provides a fluent interface for building test requests.
//
//	result := checkgroup.NewTestRequest("POST", comp.Prefix()+"/clear").
//	    WithFormData("p", props).
//	    WithoutHTMX().
//	    Execute(reg.Handler())
type TestRequestBuilder struct {
	method   string
	url      string
	formData map[string]string
	headers  map[string]string
	htmx     bool
	ctx      context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      url,
		formData: make(map[string]string),
		headers:  make(map[string]string),
		htmx:     true,
		ctx:      context.Background(),
	}
}

// WithFormData adds form data to the request.
func (b *TestRequestBuilder) WithFormData(key, value string) *TestRequestBuilder {
	b.formData[key] = value
	return b
}

// WithFormValues adds multiple form values to the request.
func (b *TestRequestBuilder) WithFormValues(data map[string]string) *TestRequestBuilder {
	for k, v := range data {
		b.formData[k] = v
	}
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithoutHTMX drops the default HX-Request header.
func (b *TestRequestBuilder) WithoutHTMX() *TestRequestBuilder {
	b.htmx = false
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute executes the request against h.
func (b *TestRequestBuilder) Execute(h http.Handler) *TestResult {
	form := url.Values{}
	for k, v := range b.formData {
		form.Set(k, v)
	}

	body := strings.NewReader("")
	if len(b.formData) > 0 {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(b.method, b.url, body)
	req = req.WithContext(b.ctx)
	if b.htmx {
		req.Header.Set("HX-Request", "true")
	}
	if len(b.formData) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
	if trigger := rec.Header().Get("HX-Trigger"); trigger != "" {
		result.TriggeredEvents = parseTriggerHeader(trigger)
	}
	return result
}
