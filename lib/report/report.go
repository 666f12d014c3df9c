// Package report renders the outcome of a test run into a single
// self-contained HTML file with failure screenshots embedded inline.
package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gravitational/hrmtest/lib/constants"
	"github.com/gravitational/hrmtest/lib/system"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gravitational/trace"
	jsoniter "github.com/json-iterator/go"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Status is the outcome of a single test
type Status string

const (
	Passed  Status = "passed"
	Failed  Status = "failed"
	Skipped Status = "skipped"
)

// Entry describes a single test
type Entry struct {
	Name       string        `json:"name"`
	Status     Status        `json:"status"`
	Duration   time.Duration `json:"duration"`
	Message    string        `json:"message,omitempty"`
	Screenshot string        `json:"screenshot,omitempty"`
}

// Report collects entries of a single run
type Report struct {
	mu sync.Mutex
	// Title heads the document
	Title string `json:"title"`
	// Started is the start time of the run
	Started time.Time `json:"started"`
	// Labels describe the run environment, i.e. the browser
	Labels map[string]string `json:"labels,omitempty"`
	// Entries lists the tests in execution order
	Entries []Entry `json:"entries"`
}

// New returns an empty report
func New(title string, started time.Time) *Report {
	return &Report{Title: title, Started: started, Labels: map[string]string{}}
}

// Add appends a test outcome
func (r *Report) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, e)
}

// Count returns the number of entries with the given status
func (r *Report) Count(status Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// UniqueSuffix returns a file name suffix made of the timestamp and
// six random hex digits, so repeated runs never collide
func UniqueSuffix(now time.Time) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%v_%v", now.Format(constants.TimestampFormat), id[:6])
}

// Markdown renders the report body
func (r *Report) Markdown() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "# %v\n\n", escape(r.Title))
	fmt.Fprintf(&b, "Started %v.\n\n", r.Started.Format(time.RFC1123))
	for _, k := range sortedKeys(r.Labels) {
		fmt.Fprintf(&b, "- **%v**: %v\n", escape(k), escape(r.Labels[k]))
	}
	var passed, failed, skipped int
	for _, e := range r.Entries {
		switch e.Status {
		case Passed:
			passed++
		case Failed:
			failed++
		case Skipped:
			skipped++
		}
	}
	fmt.Fprintf(&b, "\n%v tests: %v passed, %v failed, %v skipped.\n\n", len(r.Entries), passed, failed, skipped)

	b.WriteString("| Test | Status | Duration | Message |\n")
	b.WriteString("|------|--------|----------|---------|\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "| %v | %v | %v | %v |\n",
			cell(e.Name), statusBadge(e.Status), e.Duration.Round(time.Millisecond), cell(firstLine(e.Message)))
	}

	for _, e := range r.Entries {
		if e.Status != Failed {
			continue
		}
		fmt.Fprintf(&b, "\n## %v\n\n", escape(e.Name))
		if e.Message != "" {
			message := strings.TrimRight(e.Message, "\n")
			f := fence(message)
			fmt.Fprintf(&b, "%v\n%v\n%v\n\n", f, message, f)
		}
		if e.Screenshot != "" {
			b.WriteString(screenshot(e.Screenshot))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Render returns the HTML document
func (r *Report) Render() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &body); err != nil {
		return nil, trace.Wrap(err)
	}
	var doc bytes.Buffer
	fmt.Fprintf(&doc, pageHeader, html.EscapeString(r.Title))
	doc.Write(body.Bytes())
	doc.WriteString(pageFooter)
	return doc.Bytes(), nil
}

// Write renders the report into dir as report_<suffix>.html along with
// a JSON summary next to it. Returns the HTML file path
func (r *Report) Write(dir, suffix string) (string, error) {
	data, err := r.Render()
	if err != nil {
		return "", trace.Wrap(err)
	}
	path := filepath.Join(dir, fmt.Sprintf("report_%v.html", suffix))
	if err := system.WriteFile(path, data); err != nil {
		return "", trace.Wrap(err)
	}

	r.mu.Lock()
	summary, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(r, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return "", trace.Wrap(err)
	}
	if err := system.WriteFile(strings.TrimSuffix(path, ".html")+".json", summary); err != nil {
		return "", trace.Wrap(err)
	}
	return path, nil
}

func screenshot(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Screenshot `%v` is not available: %v.\n", path, trace.UserMessage(trace.ConvertSystemError(err)))
	}
	return fmt.Sprintf("![%v](data:image/png;base64,%v)\n\n*%v, %v*\n",
		filepath.Base(path), base64.StdEncoding.EncodeToString(data),
		escape(filepath.Base(path)), humanize.Bytes(uint64(len(data))))
}

func statusBadge(s Status) string {
	switch s {
	case Passed:
		return "✅ passed"
	case Failed:
		return "❌ **failed**"
	}
	return string(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

// fence returns a code fence longer than any backtick run in s
func fence(s string) string {
	longest, run := 0, 0
	for _, c := range s {
		if c != '`' {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

func cell(s string) string {
	return strings.ReplaceAll(escape(s), "|", `\|`)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;", "#", `\#`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const pageHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%v</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2em auto; max-width: 1100px; color: #222; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #f4f4f4; }
pre { background: #f8f8f8; padding: 1em; overflow-x: auto; }
img { max-width: 100%%; border: 1px solid #ccc; }
</style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
