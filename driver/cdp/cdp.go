// Package cdp implements browser sessions that drive Chrome directly over
// the DevTools protocol, without a WebDriver server in between.
package cdp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/lib/defaults"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/gravitational/trace"
)

// New starts a Chrome process and attaches to its first tab
func New(opts driver.Options) (*Driver, error) {
	if err := opts.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	if opts.Browser != driver.Chrome {
		return nil, trace.BadParameter("DevTools sessions support %v only, got %v", driver.Chrome, opts.Browser)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	ctx, cancel := chromedp.NewContext(allocCtx)
	session := &Driver{
		ctx:             ctx,
		cancel:          cancel,
		cancelAlloc:     cancelAlloc,
		pageLoadTimeout: opts.PageLoadTimeout,
	}
	if err := chromedp.Run(ctx); err != nil {
		session.Close()
		return nil, trace.ConnectionProblem(err, "failed to start %v", opts.Browser)
	}
	return session, nil
}

func allocatorOptions(opts driver.Options) []chromedp.ExecAllocatorOption {
	options := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-save-password-bubble", true),
		chromedp.WindowSize(1920, 1080),
	)
	if !opts.Headless {
		options = append(options, chromedp.Flag("headless", false), chromedp.Flag("start-maximized", true))
	}
	return options
}

// Driver is a Chrome tab controlled over the DevTools protocol
type Driver struct {
	ctx             context.Context
	cancel          context.CancelFunc
	cancelAlloc     context.CancelFunc
	pageLoadTimeout time.Duration
}

// Navigate loads url
func (r *Driver) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(r.ctx, r.pageLoadTimeout)
	defer cancel()
	return trace.Wrap(chromedp.Run(ctx, chromedp.Navigate(url)))
}

// URL returns the URL of the current document
func (r *Driver) URL() (url string, err error) {
	err = r.run(chromedp.Location(&url))
	return url, trace.Wrap(err)
}

// Find returns the elements matching locator
func (r *Driver) Find(locator driver.Locator) ([]driver.Element, error) {
	expr, xpath := locator.Selector()
	by := chromedp.ByQueryAll
	if xpath {
		by = chromedp.BySearch
	}
	var nodes []*cdp.Node
	if err := r.run(chromedp.Nodes(expr, &nodes, by, chromedp.AtLeast(0))); err != nil {
		return nil, trace.Wrap(err)
	}
	elements := make([]driver.Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &element{node: node, session: r})
	}
	return elements, nil
}

// RunScript evaluates script in the current document
func (r *Driver) RunScript(script string, result interface{}, args ...interface{}) error {
	expr, err := documentScript(script, args)
	if err != nil {
		return trace.Wrap(err)
	}
	var data []byte
	if err := r.run(chromedp.Evaluate(expr, &data)); err != nil {
		return trace.Wrap(err)
	}
	return driver.DecodeResult(data, result)
}

// Screenshot captures the viewport
func (r *Driver) Screenshot() ([]byte, error) {
	var data []byte
	err := r.run(chromedp.ActionFunc(func(ctx context.Context) (err error) {
		data, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
		return err
	}))
	return data, trace.Wrap(err)
}

// Close closes the browser and releases the allocator
func (r *Driver) Close() error {
	err := chromedp.Cancel(r.ctx)
	r.cancel()
	r.cancelAlloc()
	if err != nil && err != context.Canceled {
		return trace.Wrap(err)
	}
	return nil
}

func (r *Driver) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(r.ctx, defaults.ScriptTimeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

type element struct {
	node    *cdp.Node
	session *Driver
}

func (r *element) Click() error {
	return trace.Wrap(r.session.run(chromedp.MouseClickNode(r.node)))
}

func (r *element) Clear() error {
	return trace.Wrap(r.call(`function() {
	this.value = '';
	this.dispatchEvent(new Event('input', {bubbles: true}));
	this.dispatchEvent(new Event('change', {bubbles: true}));
}`, nil))
}

func (r *element) SendKeys(keys string) error {
	actions := make([]chromedp.Action, 0, 1)
	for _, stroke := range translateKeys(keys) {
		var opts []chromedp.KeyOption
		if stroke.control {
			opts = append(opts, chromedp.KeyModifiers(input.ModifierCtrl))
		}
		actions = append(actions, chromedp.KeyEventNode(r.node, stroke.keys, opts...))
	}
	return trace.Wrap(r.session.run(actions...))
}

func (r *element) Text() (text string, err error) {
	err = r.call(`function() { return this.innerText || this.textContent || ''; }`, &text)
	return text, trace.Wrap(err)
}

func (r *element) Attribute(name string) (value string, err error) {
	decl, err := elementScript(`var v = arguments[0][arguments[1]];
if (v === undefined || v === null) { v = arguments[0].getAttribute(arguments[1]); }
return v === null ? '' : String(v);`, []interface{}{name})
	if err != nil {
		return "", trace.Wrap(err)
	}
	err = r.call(decl, &value)
	return value, trace.Wrap(err)
}

func (r *element) Displayed() (displayed bool, err error) {
	err = r.call(`function() {
	if (!this.isConnected) { return false; }
	const style = window.getComputedStyle(this);
	if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') { return false; }
	const rect = this.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
}`, &displayed)
	return displayed, trace.Wrap(err)
}

func (r *element) Enabled() (enabled bool, err error) {
	err = r.call(`function() { return !this.disabled; }`, &enabled)
	return enabled, trace.Wrap(err)
}

func (r *element) Run(script string, result interface{}, args ...interface{}) error {
	decl, err := elementScript(script, args)
	if err != nil {
		return trace.Wrap(err)
	}
	return r.call(decl, result)
}

// call invokes the function declaration decl with this bound to the element
func (r *element) call(decl string, result interface{}) error {
	return r.session.run(chromedp.ActionFunc(func(ctx context.Context) error {
		object, err := dom.ResolveNode().WithBackendNodeID(r.node.BackendNodeID).Do(ctx)
		if err != nil {
			return trace.Wrap(err)
		}
		value, exception, err := runtime.CallFunctionOn(decl).
			WithObjectID(object.ObjectID).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return trace.Wrap(err)
		}
		if exception != nil {
			return trace.BadParameter("script failed: %v", exception)
		}
		if value == nil {
			return nil
		}
		return driver.DecodeResult([]byte(value.Value), result)
	}))
}

// documentScript wraps script into an expression that binds args to
// arguments and yields null for scripts that return nothing
func documentScript(script string, args []interface{}) (string, error) {
	encoded, err := driver.EncodeArgs(args)
	if err != nil {
		return "", trace.Wrap(err)
	}
	return fmt.Sprintf(`(function() { const r = (function() { %v }).apply(null, %v); return r === undefined ? null : r; })()`,
		script, encoded), nil
}

// elementScript wraps script into a function declaration called on the
// element, with the element bound to arguments[0]
func elementScript(script string, args []interface{}) (string, error) {
	encoded, err := driver.EncodeArgs(args)
	if err != nil {
		return "", trace.Wrap(err)
	}
	return fmt.Sprintf(`function() { const r = (function() { %v }).apply(null, [this].concat(%v)); return r === undefined ? null : r; }`,
		script, encoded), nil
}

type keystroke struct {
	keys    string
	control bool
}

// translateKeys splits keys on WebDriver key codes into keystrokes
// understood by the DevTools input domain. The control key applies
// to the character that follows it
func translateKeys(keys string) []keystroke {
	var strokes []keystroke
	var text strings.Builder
	flush := func() {
		if text.Len() != 0 {
			strokes = append(strokes, keystroke{keys: text.String()})
			text.Reset()
		}
	}
	control := false
	for _, r := range keys {
		key := string(r)
		switch key {
		case driver.KeyControl:
			flush()
			control = true
			continue
		case driver.KeyTab:
			key = kb.Tab
		case driver.KeyEnter:
			key = kb.Enter
		case driver.KeyDelete:
			key = kb.Delete
		}
		if control {
			strokes = append(strokes, keystroke{keys: key, control: true})
			control = false
			continue
		}
		text.WriteString(key)
	}
	flush()
	return strokes
}
