package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

var (
	csvFile string
)

/*
	Reads a timestep refinement study and prints the observed order of accuracy of each
	scheme. The CSV has a header line followed by records of

		title, scheme, dt, error

	where error is any norm of the difference to a reference solution.
*/
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	studies, err := readCSV(bufio.NewReader(f))
	if err != nil {
		panic(err)
	}
	for _, cs := range studies {
		fmt.Printf("Title = %s, Scheme = %s, Order = %5.2f\n", cs.title, cs.scheme, cs.Order())
		for i := range cs.dt {
			fmt.Printf("%v, %v\n", cs.dt[i], cs.err[i])
		}
	}
}

type ConvergenceStudy struct {
	title, scheme string
	dt, err       []float64
}

func NewConvergenceStudy(title, scheme string) *ConvergenceStudy {
	return &ConvergenceStudy{
		title:  title,
		scheme: scheme,
	}
}

func (cs *ConvergenceStudy) Add(dt, err float64) {
	cs.dt = append(cs.dt, dt)
	cs.err = append(cs.err, err)
}

// Order is the slope of the least squares fit of log(error) against log(dt)
func (cs *ConvergenceStudy) Order() (p float64) {
	if len(cs.dt) < 2 {
		return math.NaN()
	}
	x, y := make([]float64, len(cs.dt)), make([]float64, len(cs.dt))
	for i := range cs.dt {
		x[i], y[i] = math.Log(cs.dt[i]), math.Log(cs.err[i])
	}
	_, p = stat.LinearRegression(x, y, nil, false)
	return
}

// readCSV returns the studies in order of title, then scheme
func readCSV(rd io.Reader) (studies []*ConvergenceStudy, err error) {
	var (
		records [][]string
		byKey   = make(map[string]*ConvergenceStudy)
		dt, e   float64
	)
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true
	if records, err = r.ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("line %d: want 4 fields, have %d", i+1, len(rec))
		}
		title, scheme := rec[0], rec[1]
		if dt, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if e, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		key := title + "\x00" + scheme
		cs, ok := byKey[key]
		if !ok {
			cs = NewConvergenceStudy(title, scheme)
			byKey[key] = cs
			studies = append(studies, cs)
		}
		cs.Add(dt, e)
	}
	sort.SliceStable(studies, func(i, j int) bool {
		if studies[i].title != studies[j].title {
			return studies[i].title < studies[j].title
		}
		return studies[i].scheme < studies[j].scheme
	})
	return
}
