package storage

import (
	"encoding/csv"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	// CSVFileExt holds the default file extension for result files.
	CSVFileExt = ".csv"

	msSuffix      = "_Time_ms"
	secondsSuffix = "_Time_s"

	curveSuffix  = "_fit" + CSVFileExt
	deviceColumn = "Device"

	pimSizeColumn    = "problem size"
	pimRuntimeSuffix = " runtime"
	pimCopySuffix    = " copy time"
)

// Series is a named list of (size, time) points, times in milliseconds.
type Series struct {
	Name  string
	Sizes []float64
	Times []float64
}

// ListPath enumerates .csv files in a given folder and returns the
// same folder as an absolute path and the sorted list of files.
func ListPath(dataPath string) (string, []string, error) {
	dataPath, _ = filepath.Abs(dataPath)
	if info, err := os.Stat(dataPath); err != nil {
		return "", nil, err
	} else if info.IsDir() == false {
		return "", nil, fmt.Errorf("%s is not a folder.", dataPath)
	}

	files, err := ioutil.ReadDir(dataPath)
	if err != nil {
		return "", nil, err
	}

	loadable := make([]string, 0)
	for _, file := range files {
		fileName := file.Name()
		if file.IsDir() || filepath.Ext(fileName) != CSVFileExt {
			continue
		}
		loadable = append(loadable, filepath.Join(dataPath, fileName))
	}
	sort.Strings(loadable)

	return dataPath, loadable, nil
}

func readTable(fileName string) ([]string, [][]string, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, nil, fmt.Errorf("Error while reading %s: %s", fileName, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("Error while parsing %s: %s", fileName, err)
	} else if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%s has no data rows", fileName)
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, rows[1:], nil
}

func parseCell(fileName string, row int, cell string) (float64, bool, error) {
	if cell = strings.TrimSpace(cell); cell == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s:%d: %v", fileName, row+2, err)
	}
	return v, true, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// LoadSeries reads the series of a result file. Wide result files have a
// Size column and one <NAME>_Time_ms (or <NAME>_Time_s, converted to
// milliseconds) column per series. PIM files have a "problem size" column
// and a series for every "<name> runtime" / "<name> copy time" pair, whose
// time is the sum of the two. Files with a Device column, like the fitted
// curves, have a series per device.
func LoadSeries(fileName string) ([]Series, error) {
	header, rows, err := readTable(fileName)
	if err != nil {
		return nil, err
	}

	if idx := columnIndex(header, pimSizeColumn); idx >= 0 {
		return loadPIM(fileName, header, rows, idx)
	}

	sizeIdx := columnIndex(header, "Size")
	if sizeIdx < 0 {
		return nil, fmt.Errorf("%s has no Size column", fileName)
	}

	if idx := columnIndex(header, deviceColumn); idx >= 0 {
		return loadLong(fileName, header, rows, sizeIdx, idx)
	}

	series := make([]Series, 0)
	for col, name := range header {
		scale, ok := timeScale(name)
		if !ok {
			continue
		}
		name = strings.TrimSuffix(strings.TrimSuffix(name, msSuffix), secondsSuffix)

		s := Series{Name: name}
		for i, row := range rows {
			if col >= len(row) || sizeIdx >= len(row) {
				continue
			}
			size, ok, err := parseCell(fileName, i, row[sizeIdx])
			if err != nil {
				return nil, err
			} else if !ok {
				continue
			}
			t, ok, err := parseCell(fileName, i, row[col])
			if err != nil {
				return nil, err
			} else if !ok {
				continue
			}
			s.Sizes = append(s.Sizes, size)
			s.Times = append(s.Times, t*scale)
		}
		series = append(series, s)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%s has no time columns", fileName)
	}
	return series, nil
}

func timeScale(name string) (float64, bool) {
	if strings.HasSuffix(name, msSuffix) {
		return 1.0, true
	} else if strings.HasSuffix(name, secondsSuffix) {
		return 1000.0, true
	}
	return 0, false
}

// loadLong reads files with a Device column, such as the fitted curves,
// as one series per device in order of appearance.
func loadLong(fileName string, header []string, rows [][]string, sizeIdx, deviceIdx int) ([]Series, error) {
	timeIdx, scale := -1, 0.0
	for col, name := range header {
		if sc, ok := timeScale(name); ok {
			timeIdx, scale = col, sc
			break
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("%s has no time columns", fileName)
	}

	series := make([]Series, 0)
	byDevice := make(map[string]int)
	for i, row := range rows {
		if timeIdx >= len(row) || sizeIdx >= len(row) || deviceIdx >= len(row) {
			continue
		}
		size, ok, err := parseCell(fileName, i, row[sizeIdx])
		if err != nil {
			return nil, err
		} else if !ok {
			continue
		}
		t, ok, err := parseCell(fileName, i, row[timeIdx])
		if err != nil {
			return nil, err
		} else if !ok {
			continue
		}

		name := strings.TrimSpace(row[deviceIdx])
		idx, found := byDevice[name]
		if !found {
			idx = len(series)
			byDevice[name] = idx
			series = append(series, Series{Name: name})
		}
		series[idx].Sizes = append(series[idx].Sizes, size)
		series[idx].Times = append(series[idx].Times, t*scale)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%s has no data rows", fileName)
	}
	return series, nil
}

// IsCurveFile tells if fileName was written by SaveCurve.
func IsCurveFile(fileName string) bool {
	return strings.HasSuffix(filepath.Base(fileName), curveSuffix)
}

func loadPIM(fileName string, header []string, rows [][]string, sizeIdx int) ([]Series, error) {
	series := make([]Series, 0)
	for col, name := range header {
		if !strings.HasSuffix(strings.ToLower(name), pimRuntimeSuffix) {
			continue
		}
		prefix := name[:len(name)-len(pimRuntimeSuffix)]
		copyIdx := columnIndex(header, prefix+pimCopySuffix)

		s := Series{Name: strings.ToUpper(prefix)}
		for i, row := range rows {
			size, ok, err := parseCell(fileName, i, row[sizeIdx])
			if err != nil {
				return nil, err
			} else if !ok {
				continue
			}
			runtime, ok, err := parseCell(fileName, i, row[col])
			if err != nil {
				return nil, err
			} else if !ok {
				continue
			}
			if copyIdx >= 0 && copyIdx < len(row) {
				copyTime, _, err := parseCell(fileName, i, row[copyIdx])
				if err != nil {
					return nil, err
				}
				runtime += copyTime
			}
			s.Sizes = append(s.Sizes, size)
			s.Times = append(s.Times, runtime)
		}
		series = append(series, s)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%s has no runtime columns", fileName)
	}
	return series, nil
}
