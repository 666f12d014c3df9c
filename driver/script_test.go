package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeResult(t *testing.T) {
	var state string
	require.NoError(t, DecodeResult([]byte(`"complete"`), &state))
	require.Equal(t, "complete", state)

	var options []string
	require.NoError(t, DecodeResult([]byte(`["Admin","PIM"]`), &options))
	require.Equal(t, []string{"Admin", "PIM"}, options)

	require.NoError(t, DecodeResult([]byte(`null`), &options))
	require.Nil(t, options)

	require.NoError(t, DecodeResult([]byte(`{"a":1}`), nil))
	require.Error(t, DecodeResult([]byte(`{"a":1}`), &state))
}

func TestConvertResult(t *testing.T) {
	var count int
	require.NoError(t, ConvertResult(float64(3), &count))
	require.Equal(t, 3, count)

	var rows []map[string]string
	require.NoError(t, ConvertResult([]interface{}{map[string]interface{}{"id": "0381"}}, &rows))
	require.Equal(t, []map[string]string{{"id": "0381"}}, rows)
}

func TestEncodeArgs(t *testing.T) {
	args, err := EncodeArgs(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", args)

	args, err = EncodeArgs([]interface{}{"O'Neil", 42, true})
	require.NoError(t, err)
	require.Equal(t, `["O'Neil",42,true]`, args)

	_, err = EncodeArgs([]interface{}{make(chan int)})
	require.Error(t, err)
}
