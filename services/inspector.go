package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/go-gota/gota/dataframe"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("213")).
			Padding(0, 1)

	headingColor = color.New(color.FgYellow, color.Bold)
	valueColor   = color.New(color.Bold)
	missingColor = color.New(color.FgRed)
	okColor      = color.New(color.FgGreen)
)

// ColumnInfo describes one column of an inspected frame.
type ColumnInfo struct {
	Name    string
	Type    string
	Missing int
}

// FrameInfo is the shape, schema and missing-value census of a frame.
type FrameInfo struct {
	Label           string
	Rows, Cols      int
	Columns         []ColumnInfo
	RowsWithMissing int
}

// MissingIn returns the missing count of the named column, or -1.
func (fi FrameInfo) MissingIn(name string) int {
	for _, c := range fi.Columns {
		if c.Name == name {
			return c.Missing
		}
	}
	return -1
}

// Inspect reports on df without modifying it.
func Inspect(df dataframe.DataFrame, label string) FrameInfo {
	rows, cols := df.Dims()
	info := FrameInfo{Label: label, Rows: rows, Cols: cols}

	anyMissing := make([]bool, rows)
	types := df.Types()
	for i, name := range df.Names() {
		nan := df.Col(name).IsNaN()
		n := 0
		for r, isNaN := range nan {
			if isNaN {
				n++
				anyMissing[r] = true
			}
		}
		info.Columns = append(info.Columns, ColumnInfo{Name: name, Type: string(types[i]), Missing: n})
	}
	for _, m := range anyMissing {
		if m {
			info.RowsWithMissing++
		}
	}
	return info
}

// PrintFrameInfo writes a colored dump of info to w.
func PrintFrameInfo(w io.Writer, info FrameInfo) {
	fmt.Fprintln(w, titleStyle.Render(info.Label))
	fmt.Fprintf(w, "  Shape   : ")
	valueColor.Fprintf(w, "(%d, %d)\n", info.Rows, info.Cols)
	fmt.Fprintf(w, "  Rows with missing values : %d\n\n", info.RowsWithMissing)

	headingColor.Fprintf(w, "  %-32s %-8s %s\n", "Column", "Type", "Missing")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 50))
	for _, c := range info.Columns {
		fmt.Fprintf(w, "  %-32s %-8s ", c.Name, c.Type)
		if c.Missing > 0 {
			missingColor.Fprintf(w, "%d\n", c.Missing)
		} else {
			okColor.Fprintf(w, "%d\n", c.Missing)
		}
	}
	fmt.Fprintln(w)
}
