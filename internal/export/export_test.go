package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVQuoting(t *testing.T) {
	got := CSV([]string{"id", "name"}, [][]any{{1, "O'Brien, Jr."}})
	assert.Equal(t, "id,name\n1,\"O'Brien, Jr.\"", got)
}

func TestCSVEscapesQuotesAndNewlines(t *testing.T) {
	rows := [][]any{
		{json.Number("2"), `say "hi"`},
		{json.Number("3"), "line1\nline2"},
		{json.Number("4"), "plain"},
	}
	got := CSV([]string{"id", "note"}, rows)
	want := "id,note\n" +
		"2,\"say \"\"hi\"\"\"\n" +
		"3,\"line1\nline2\"\n" +
		"4,plain"
	assert.Equal(t, want, got)
}

func TestCSVNullIsEmptyField(t *testing.T) {
	got := CSV([]string{"a", "b", "c"}, [][]any{{nil, "", "x"}})
	assert.Equal(t, "a,b,c\n,,x", got)
	assert.NotContains(t, got, "null")
}

func TestCSVIsDeterministic(t *testing.T) {
	cols := []string{"k", "v"}
	rows := [][]any{{"a", true}, {"b", 1.5}, {"c", nil}}
	assert.Equal(t, CSV(cols, rows), CSV(cols, rows))
}

func TestCSVHeaderOnly(t *testing.T) {
	assert.Equal(t, "x,y", CSV([]string{"x", "y"}, nil))
	assert.Equal(t, "", CSV(nil, nil))
}

func TestCSVHeaderIsEscapedLikeCells(t *testing.T) {
	got := CSV([]string{"id", "last, first", `say "hi"`}, [][]any{{1, "a", "b"}})
	assert.Equal(t, "id,\"last, first\",\"say \"\"hi\"\"\"\n1,a,b", got)

	plain := CSV([]string{"id", "name"}, nil)
	assert.Equal(t, "id,name", plain)
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()

	path, err := Download(dir, "", "a,b\n1,2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2", string(data))

	path, err = Download(dir, "report", "x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.csv"), path)
}

func TestResolvePathKeepsAbsolute(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "out.csv")
	assert.Equal(t, abs, ResolvePath("/elsewhere", abs))
}

func TestXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.True(t, IsXLSX(path))

	err := XLSX([]string{"id", "name"}, [][]any{
		{json.Number("1"), "alice"},
		{json.Number("2"), nil},
	}, path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "name"}, rows[0])
	assert.Equal(t, []string{"1", "alice"}, rows[1])
	assert.Equal(t, []string{"2"}, rows[2])
}
