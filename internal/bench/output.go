package bench

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteText writes one "n kernel user diff" line per row, in integer
// nanoseconds.
func WriteText(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%d %d %d %d\n", r.N, round(r.Kernel), round(r.User), round(r.Diff)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadText parses the output of WriteText. Blank lines and lines starting
// with '#' are skipped.
func ReadText(r io.Reader) ([]Row, error) {
	var rows []Row
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var row Row
		if _, err := fmt.Sscanf(text, "%d %g %g %g", &row.N, &row.Kernel, &row.User, &row.Diff); err != nil {
			return nil, fmt.Errorf("bench: line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func round(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	return int64(math.Round(v))
}

// Series is a named set of rows drawn by Plot.
type Series struct {
	Name string
	Rows []Row
}

var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

// Plot draws kernel, user and diff time against n for every series and
// saves the chart to path. The image format follows the extension.
func Plot(path, title string, series ...Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "n"
	p.Y.Label.Text = "time (ns)"
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	idx := 0
	for _, s := range series {
		for _, col := range []struct {
			label string
			value func(Row) float64
		}{
			{"kernel", func(r Row) float64 { return r.Kernel }},
			{"user", func(r Row) float64 { return r.User }},
			{"diff", func(r Row) float64 { return r.Diff }},
		} {
			pts := make(plotter.XYs, len(s.Rows))
			for i, r := range s.Rows {
				pts[i].X = float64(r.N)
				pts[i].Y = col.value(r)
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("bench: %s %s: %w", s.Name, col.label, err)
			}
			line.Color = palette[idx%len(palette)]
			line.Width = vg.Points(1)
			idx++
			p.Add(line)
			p.Legend.Add(strings.TrimSpace(s.Name+" "+col.label), line)
		}
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
