package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/bookshelf-api/internal/domain"
)

func noPrompt(t *testing.T) passwordReader {
	return func() (string, error) {
		t.Fatal("password reader should not be called")
		return "", nil
	}
}

func TestRunHashesArguments(t *testing.T) {
	var out, errOut bytes.Buffer

	err := run([]string{"-cost", "4", "first", "second"}, &out, &errOut, noPrompt(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[0]), []byte("first")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[1]), []byte("second")))

	cost, err := bcrypt.Cost([]byte(lines[0]))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestRunPromptsWithoutArguments(t *testing.T) {
	var out bytes.Buffer
	read := func() (string, error) { return "from-terminal", nil }

	require.NoError(t, run([]string{"-cost", "4"}, &out, &bytes.Buffer{}, read))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("from-terminal")))
}

func TestRunErrors(t *testing.T) {
	t.Run("cost out of range", func(t *testing.T) {
		err := run([]string{"-cost", "99", "pw"}, &bytes.Buffer{}, &bytes.Buffer{}, noPrompt(t))
		assert.ErrorContains(t, err, "cost must be between")
	})

	t.Run("reader failure", func(t *testing.T) {
		read := func() (string, error) { return "", errNoPassword }
		err := run([]string{"-cost", "4"}, &bytes.Buffer{}, &bytes.Buffer{}, read)
		assert.True(t, errors.Is(err, errNoPassword))
	})

	t.Run("blank password", func(t *testing.T) {
		err := run([]string{"-cost", "4", "   "}, &bytes.Buffer{}, &bytes.Buffer{}, noPrompt(t))
		assert.ErrorIs(t, err, domain.ErrEmptyPassword)
	})
}

func TestConfiguredCost(t *testing.T) {
	t.Setenv("BOOKSHELF_AUTH_BCRYPT_COST", "6")
	assert.Equal(t, 6, configuredCost())
}

func TestReadLine(t *testing.T) {
	p, err := readLine(strings.NewReader("hunter2\r\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", p)

	_, err = readLine(strings.NewReader(""))
	assert.ErrorIs(t, err, errNoPassword)
}
