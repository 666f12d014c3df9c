package cdp

import (
	"testing"

	"github.com/gravitational/hrmtest/driver"

	"github.com/chromedp/chromedp/kb"
	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestTranslateKeys(t *testing.T) {
	var testCases = []struct {
		comment string
		keys    string
		strokes []keystroke
	}{
		{
			comment: "plain text",
			keys:    "Linda Anderson",
			strokes: []keystroke{{keys: "Linda Anderson"}},
		},
		{
			comment: "select all",
			keys:    driver.KeyControl + "a",
			strokes: []keystroke{{keys: "a", control: true}},
		},
		{
			comment: "special keys",
			keys:    "Peter" + driver.KeyTab + driver.KeyEnter,
			strokes: []keystroke{{keys: "Peter" + kb.Tab + kb.Enter}},
		},
		{
			comment: "control is scoped to one key",
			keys:    "x" + driver.KeyControl + "a" + driver.KeyDelete,
			strokes: []keystroke{
				{keys: "x"},
				{keys: "a", control: true},
				{keys: kb.Delete},
			},
		},
		{
			comment: "empty",
			keys:    "",
		},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.strokes, translateKeys(tc.keys), tc.comment)
	}
}

func TestDocumentScript(t *testing.T) {
	expr, err := documentScript("return document.readyState", nil)
	require.NoError(t, err)
	require.Equal(t,
		`(function() { const r = (function() { return document.readyState }).apply(null, []); return r === undefined ? null : r; })()`,
		expr)

	expr, err = documentScript("return arguments[0] + arguments[1]", []interface{}{"a", 1})
	require.NoError(t, err)
	require.Contains(t, expr, `.apply(null, ["a",1])`)
}

func TestElementScriptBindsElement(t *testing.T) {
	decl, err := elementScript("arguments[0].value = arguments[1];", []interface{}{"Peter"})
	require.NoError(t, err)
	require.Equal(t,
		`function() { const r = (function() { arguments[0].value = arguments[1]; }).apply(null, [this].concat(["Peter"])); return r === undefined ? null : r; }`,
		decl)
}

func TestElementScriptRejectsUnserializableArgs(t *testing.T) {
	_, err := elementScript("return 1", []interface{}{make(chan int)})
	require.True(t, trace.IsBadParameter(err))
}

func TestNewRejectsOtherBrowsers(t *testing.T) {
	_, err := New(driver.Options{Browser: driver.Firefox})
	require.True(t, trace.IsBadParameter(err))
}

func TestAllocatorOptions(t *testing.T) {
	headless := allocatorOptions(driver.Options{Headless: true})
	headed := allocatorOptions(driver.Options{})
	require.Len(t, headed, len(headless)+2)
}
