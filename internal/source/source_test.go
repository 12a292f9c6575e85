package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.boop")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStreamerYieldsLinesInOrder(t *testing.T) {
	path := writeTempFile(t, "fn main()\n\tprint 1\n")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var got []string
	for {
		line, ok := s.NextLine()
		if !ok {
			break
		}
		got = append(got, string(line))
	}
	require.NoError(t, s.Err())
	require.Equal(t, []string{"fn main()", "\tprint 1"}, got)
}

func TestStreamerToleratesMissingTrailingNewline(t *testing.T) {
	path := writeTempFile(t, "fn main()\n\tprint 1")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var got []string
	for {
		line, ok := s.NextLine()
		if !ok {
			break
		}
		got = append(got, string(line))
	}
	require.NoError(t, s.Err())
	require.Equal(t, []string{"fn main()", "\tprint 1"}, got)
}

func TestStreamerRejectsOverlongLine(t *testing.T) {
	path := writeTempFile(t, strings.Repeat("x", MaxLineBytes+1)+"\n")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.NextLine()
	require.False(t, ok)
	require.Error(t, s.Err())
	var tooLong *ErrLineTooLong
	require.ErrorAs(t, s.Err(), &tooLong)
}

func TestOpenMissingFileFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.boop"))
	require.Error(t, err)
}
