package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCommand_NoFlagsPrintsEverything(t *testing.T) {
	path := writeFruit(t)

	stdout, _, err := executeCommand("filter", path)
	require.NoError(t, err)

	for _, name := range []string{"Apple", "banana", "Cherry", "Damson"} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "Showing 4 of 4 total rows")
}

func TestFilterCommand_Constraints(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		exclude []string
		summary string
	}{
		{
			name:    "contains is case-insensitive and ORs terms",
			args:    []string{"--contains", "Name=a"},
			want:    []string{"Apple", "banana", "Damson"},
			exclude: []string{"Cherry"},
			summary: "Showing 3 of 4 total rows",
		},
		{
			name:    "in keeps listed values",
			args:    []string{"--in", "Colour=red,purple"},
			want:    []string{"Apple", "Cherry", "Damson"},
			exclude: []string{"banana"},
			summary: "Showing 3 of 4 total rows",
		},
		{
			name:    "equals keeps exact matches",
			args:    []string{"--equals", "Colour=yellow"},
			want:    []string{"banana"},
			exclude: []string{"Apple", "Cherry", "Damson"},
			summary: "Showing 1 of 4 total rows",
		},
		{
			name:    "constraints combine with AND",
			args:    []string{"--contains", "Name=a", "--in", "Colour=red"},
			want:    []string{"Apple"},
			exclude: []string{"banana", "Cherry", "Damson"},
			summary: "Showing 1 of 4 total rows",
		},
		{
			name:    "contains on a number column",
			args:    []string{"--contains", "Qty=7, 5"},
			want:    []string{"banana", "Cherry"},
			exclude: []string{"Apple", "Damson"},
			summary: "Showing 2 of 4 total rows",
		},
		{
			name:    "no matches",
			args:    []string{"--contains", "Name=zzz"},
			exclude: []string{"Apple", "banana", "Cherry", "Damson"},
			summary: "Showing 0 of 4 total rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFruit(t)

			stdout, _, err := executeCommand(append([]string{"filter", path}, tt.args...)...)
			require.NoError(t, err)

			for _, w := range tt.want {
				assert.Contains(t, stdout, w)
			}
			for _, x := range tt.exclude {
				assert.NotContains(t, stdout, x)
			}
			assert.Contains(t, stdout, tt.summary)
		})
	}
}

func TestFilterCommand_PreviewRowsLimit(t *testing.T) {
	path := writeFruit(t)

	stdout, _, err := executeCommand("filter", path, "--preview-rows", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Showing 4 of 4 total rows (first 2 printed)")
	assert.NotContains(t, stdout, "Damson")
}

func TestFilterCommand_ExportCSV(t *testing.T) {
	path := writeFruit(t)
	out := filepath.Join(t.TempDir(), "red.csv")

	stdout, _, err := executeCommand("filter", path, "--in", "Colour=red", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 2 of 4 rows to "+out)
	assert.NotContains(t, stdout, "Showing")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Name,Colour,Qty\nApple,red,3\nCherry,red,7\n", string(data))
}

func TestFilterCommand_ExportWithPreview(t *testing.T) {
	path := writeFruit(t)
	out := filepath.Join(t.TempDir(), "all")

	stdout, _, err := executeCommand("filter", path, "--output", out, "--preview")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 4 of 4 rows to "+out+".xlsx")
	assert.Contains(t, stdout, "Showing 4 of 4 total rows")

	_, err = os.Stat(out + ".xlsx")
	require.NoError(t, err)
}

func TestFilterCommand_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing separator", []string{"--contains", "Name"}},
		{"empty column", []string{"--equals", "=red"}},
		{"unknown column", []string{"--contains", "Weight=3"}},
		{"value not in column", []string{"--in", "Colour=blue"}},
		{"choice not in column", []string{"--equals", "Colour=blue"}},
		{"two flags on one column", []string{"--contains", "Name=an", "--in", "Name=Apple,banana"}},
		{"same flag twice on one column", []string{"--in", "Colour=red", "--in", "Colour=yellow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFruit(t)

			_, _, err := executeCommand(append([]string{"filter", path}, tt.args...)...)
			requireExitCode(t, err, 2)
		})
	}
}

func TestFilterCommand_UnsupportedExport(t *testing.T) {
	path := writeFruit(t)

	_, _, err := executeCommand("filter", path, "--output", filepath.Join(t.TempDir(), "out.json"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported")
}

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a long description", 10, "a long ..."},
		{"a long description", 0, "a long description"},
		{"abcdef", 3, "abc"},
		{"line one\nline two", 40, "line one line two"},
		{"日本語テキスト", 8, "日本..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateCell(tt.in, tt.width), "truncateCell(%q, %d)", tt.in, tt.width)
	}
}

func TestFilterCommand_SecondFlagOnColumnIsRejected(t *testing.T) {
	path := writeFruit(t)

	stdout, _, err := executeCommand("filter", path, "--contains", "Name=an", "--equals", "Name=banana")
	requireExitCode(t, err, 2)
	assert.ErrorContains(t, err, `already filtered by --contains`)
	assert.Empty(t, stdout, "nothing is printed when a constraint would be dropped")
}
