package parser

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseCSV reads contiguous-window job rows from a CSV file with a
// release,deadline,duration header. Column order follows the header, so
// files may reorder or title-case the columns.
func ParseCSV(path string) ([]JobSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open CSV %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read CSV %q", path)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("CSV %q is empty", path)
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"release", "deadline", "duration"} {
		if _, ok := columns[required]; !ok {
			return nil, errors.Errorf("CSV %q is missing the %q column", path, required)
		}
	}

	field := func(row []string, name string) (int, error) {
		i := columns[name]
		if i >= len(row) {
			return 0, errors.Errorf("missing %q value", name)
		}
		v, err := strconv.Atoi(strings.TrimSpace(row[i]))
		if err != nil {
			return 0, errors.Wrapf(err, "parse %q", name)
		}
		return v, nil
	}

	specs := make([]JobSpec, 0, len(rows)-1)
	for n, row := range rows[1:] {
		var spec JobSpec
		var err error
		if spec.Release, err = field(row, "release"); err != nil {
			return nil, errors.Wrapf(err, "row %d", n+2)
		}
		if spec.Deadline, err = field(row, "deadline"); err != nil {
			return nil, errors.Wrapf(err, "row %d", n+2)
		}
		if spec.Duration, err = field(row, "duration"); err != nil {
			return nil, errors.Wrapf(err, "row %d", n+2)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
