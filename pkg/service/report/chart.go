package report

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/secmon-lab/harrier/pkg/service/aggregate"
)

// Chart geometry. Width grows with the bucket count so dense periods stay
// readable; height is fixed.
const (
	chartHeight    = 300
	chartPadLeft   = 40
	chartPadRight  = 20
	chartPadTop    = 20
	chartPadBottom = 40
	bucketWidth    = 56
	barWidth       = 20
	gridLines      = 4

	// past this many buckets, x labels are thinned: every labelStep-th
	// label is drawn plus the last one
	labelThinning = 12
	labelStep     = 5
)

const (
	malwareColor = "#c0392b"
	phishColor   = "#2980b9"
)

type chartBucket struct {
	label   string
	malware int
	phish   int
}

// mergeBuckets joins the two sparse series on their union of day labels
func mergeBuckets(malware, phish aggregate.Series) []chartBucket {
	counts := map[string]*chartBucket{}
	for i, label := range malware.Labels {
		counts[label] = &chartBucket{label: label, malware: malware.Values[i]}
	}
	for i, label := range phish.Labels {
		if b, ok := counts[label]; ok {
			b.phish = phish.Values[i]
		} else {
			counts[label] = &chartBucket{label: label, phish: phish.Values[i]}
		}
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	buckets := make([]chartBucket, len(labels))
	for i, label := range labels {
		buckets[i] = *counts[label]
	}
	return buckets
}

// RenderChart draws the malware/phishing daily series as an inline SVG
// grouped bar chart with horizontal gridlines and per-bar value labels.
func RenderChart(malware, phish aggregate.Series) template.HTML {
	buckets := mergeBuckets(malware, phish)
	if len(buckets) == 0 {
		return template.HTML(`<p class="chart-empty">No activity recorded in this period.</p>`)
	}

	maxCount := 1
	for _, b := range buckets {
		if b.malware > maxCount {
			maxCount = b.malware
		}
		if b.phish > maxCount {
			maxCount = b.phish
		}
	}

	width := chartPadLeft + chartPadRight + len(buckets)*bucketWidth
	plotHeight := chartHeight - chartPadTop - chartPadBottom
	baseline := chartHeight - chartPadBottom

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" role="img">`,
		width, chartHeight, width, chartHeight)

	// horizontal gridlines with axis values
	for i := 0; i <= gridLines; i++ {
		value := maxCount * i / gridLines
		y := baseline - plotHeight*i/gridLines
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#ddd" stroke-width="1"/>`,
			chartPadLeft, y, width-chartPadRight, y)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="10" text-anchor="end" fill="#666">%d</text>`,
			chartPadLeft-5, y+4, value)
	}

	thin := len(buckets) > labelThinning
	for i, b := range buckets {
		groupX := chartPadLeft + i*bucketWidth + (bucketWidth-2*barWidth-4)/2

		drawBar(&sb, groupX, baseline, plotHeight, b.malware, maxCount, malwareColor)
		drawBar(&sb, groupX+barWidth+4, baseline, plotHeight, b.phish, maxCount, phishColor)

		if !thin || i%labelStep == 0 || i == len(buckets)-1 {
			fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="9" text-anchor="middle" fill="#333">%s</text>`,
				chartPadLeft+i*bucketWidth+bucketWidth/2, baseline+14, template.HTMLEscapeString(b.label))
		}
	}

	// legend
	legendY := chartHeight - 8
	fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="10" height="10" fill="%s"/>`, chartPadLeft, legendY-9, malwareColor)
	fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="10" fill="#333">Malware</text>`, chartPadLeft+14, legendY)
	fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="10" height="10" fill="%s"/>`, chartPadLeft+80, legendY-9, phishColor)
	fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="10" fill="#333">Phishing</text>`, chartPadLeft+94, legendY)

	sb.WriteString(`</svg>`)
	return template.HTML(sb.String())
}

func drawBar(sb *strings.Builder, x, baseline, plotHeight, count, maxCount int, color string) {
	if count == 0 {
		return
	}
	h := plotHeight * count / maxCount
	fmt.Fprintf(sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
		x, baseline-h, barWidth, h, color)
	fmt.Fprintf(sb, `<text x="%d" y="%d" font-size="9" text-anchor="middle" fill="#333">%d</text>`,
		x+barWidth/2, baseline-h-3, count)
}
