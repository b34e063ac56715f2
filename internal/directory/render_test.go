package directory

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
)

func TestRenderSnapshot_Table(t *testing.T) {
	t.Parallel()

	a := jane
	a.Specialties = []string{"CBT", "Trauma & PTSD"}
	var buf bytes.Buffer
	err := RenderSnapshot(&buf, Snapshot{State: StateReady, Term: "a", Query: "a", Advocates: []domain.Advocate{a, john}})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, Title)
	require.Contains(t, out, "Search: a")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	var header string
	for i, l := range lines {
		if strings.HasPrefix(l, "First Name") {
			header = l
			lines = lines[i+1:]
			break
		}
	}
	for _, c := range columns {
		require.Contains(t, header, c)
	}
	require.Len(t, lines, 3, "one row per advocate plus one per extra specialty")
	require.True(t, strings.HasPrefix(lines[0], "Jane"))
	require.Contains(t, lines[0], "CBT")
	require.Contains(t, lines[0], "5551234")
	require.Contains(t, lines[1], "Trauma & PTSD")
	require.Equal(t, strings.Index(lines[0], "CBT"), strings.Index(lines[1], "Trauma"))
	require.True(t, strings.HasPrefix(lines[2], "John"))
	require.Contains(t, lines[2], "12")
}

func TestRenderSnapshot_Messages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		snap Snapshot
		want string
	}{
		{Snapshot{State: StateLoading, Message: MessageLoading}, MessageLoading},
		{Snapshot{State: StateError, Message: MessageSearchError}, MessageSearchError},
		{Snapshot{State: StateReady, Advocates: []domain.Advocate{}}, MessageEmpty},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		require.NoError(t, RenderSnapshot(&buf, tc.snap))
		require.Contains(t, buf.String(), tc.want)
		require.NotContains(t, buf.String(), "First Name")
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSnapshot(&buf, Snapshot{State: StateIdle}))
	require.Equal(t, Title+"\n\nSearch: \n\n", buf.String())
}
