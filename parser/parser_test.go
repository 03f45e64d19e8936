package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfold/activetime/pool"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCSV(t *testing.T) {
	path := writeFile(t, "jobs.csv", "release,deadline,duration\n1,4,2\n3,8,2\n")

	specs, err := ParseCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []JobSpec{
		{Release: 1, Deadline: 4, Duration: 2},
		{Release: 3, Deadline: 8, Duration: 2},
	}, specs)
}

func TestParseCSVReordersColumnsByHeader(t *testing.T) {
	path := writeFile(t, "jobs.csv", "Duration,Release,Deadline\n2,1,4\n")

	specs, err := ParseCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []JobSpec{{Release: 1, Deadline: 4, Duration: 2}}, specs)
}

func TestParseCSVMissingColumn(t *testing.T) {
	path := writeFile(t, "jobs.csv", "release,deadline\n1,4\n")
	_, err := ParseCSV(path)
	assert.Error(t, err)
}

func TestParseCSVBadValue(t *testing.T) {
	path := writeFile(t, "jobs.csv", "release,deadline,duration\n1,four,2\n")
	_, err := ParseCSV(path)
	assert.Error(t, err)
}

func TestLoadJobFileAndBuildPool(t *testing.T) {
	path := writeFile(t, "jobs.json", `{
		"kind": "interval",
		"jobs": [
			{"release": 1, "deadline": 4, "duration": 2},
			{"release": 3, "deadline": 8, "duration": 2}
		]
	}`)

	file, err := LoadJobFile(path)
	require.NoError(t, err)

	built, err := file.BuildPool()
	require.NoError(t, err)

	jobPool, ok := built.(*pool.JobPool)
	require.True(t, ok)
	assert.Equal(t, 2, jobPool.Size())
}

func TestBuildPoolKinds(t *testing.T) {
	cases := []struct {
		name string
		file JobFile
		want interface{}
	}{
		{
			name: "unit",
			file: JobFile{Kind: KindUnit, Jobs: []JobSpec{{Release: 1, Deadline: 4}}},
			want: &pool.UnitJobPool{},
		},
		{
			name: "fixed length",
			file: JobFile{Kind: KindFixedLength, FixedLength: 2, Jobs: []JobSpec{{Release: 1, Deadline: 4}}},
			want: &pool.FixedLengthJobPool{},
		},
		{
			name: "multi interval",
			file: JobFile{Kind: KindMultiInterval, Jobs: []JobSpec{{Duration: 1, Intervals: [][2]int{{1, 2}, {4, 5}}}}},
			want: &pool.JobPoolMI{},
		},
		{
			name: "unit multi interval",
			file: JobFile{Kind: KindUnitMultiInterval, Jobs: []JobSpec{{Intervals: [][2]int{{1, 1}}}}},
			want: &pool.UnitJobPoolMI{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			built, err := tc.file.BuildPool()
			require.NoError(t, err)
			assert.IsType(t, tc.want, built)
			assert.Equal(t, 1, built.Size())
		})
	}
}

func TestBuildPoolRejectsUnknownKind(t *testing.T) {
	file := JobFile{Kind: "weekly"}
	_, err := file.BuildPool()
	assert.Error(t, err)
}

func TestBuildPoolSurfacesJobErrors(t *testing.T) {
	file := JobFile{Kind: KindInterval, Jobs: []JobSpec{{Release: 5, Deadline: 4, Duration: 1}}}
	_, err := file.BuildPool()
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	specs := []JobSpec{
		{Release: 1, Deadline: 4, Duration: 2},
		{Release: 3, Deadline: 8, Duration: 5},
		{Release: 10, Deadline: 11, Duration: 1},
	}

	kept, err := Filter(specs, "duration > 1 && release < 10")
	require.NoError(t, err)
	assert.Equal(t, specs[:2], kept)

	kept, err = Filter(specs, "length == 2")
	require.NoError(t, err)
	assert.Equal(t, []JobSpec{specs[2]}, kept)
}

func TestFilterRejectsBadExpressions(t *testing.T) {
	_, err := Filter(nil, "")
	assert.Error(t, err)

	_, err = Filter([]JobSpec{{}}, "release +")
	assert.Error(t, err)
}
