package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  admin \n"), "User name", &out)
	require.NoError(t, err)
	assert.Equal(t, "admin", got)
	assert.Equal(t, "User name\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetRequiredText(t *testing.T) {
	var out bytes.Buffer
	_, err := GetRequiredText(rdr("\n"), "User name", &out)
	require.ErrorIs(t, err, ErrEmptyInput)

	got, err := GetRequiredText(rdr("u\n"), "User name", &out)
	require.NoError(t, err)
	assert.Equal(t, "u", got)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out, "Password")
	require.NoError(t, err)
	assert.Equal(t, "secret1", string(pw))
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(&out, "Password")
	require.Error(t, err)
}
