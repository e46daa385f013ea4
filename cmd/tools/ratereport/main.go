// Command ratereport renders an HTML chart of frame arrival rates from the
// daemon's sqlite frame archive. One line series per frame kind, bucketed
// per second, for a single capture run.
//
// Usage:
//
//	go run ./cmd/tools/ratereport -db frames.db [-run <uuid>] [-out report.html]
//
// Without -run the most recent run is charted. Use -list to print run IDs.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	_ "modernc.org/sqlite"

	"github.com/nervelabs/nervebridge/internal/telemetry/recorder"
)

func main() {
	dbPath := flag.String("db", "", "Path to frame archive sqlite DB (required)")
	runID := flag.String("run", "", "Run ID to chart (default: most recent)")
	out := flag.String("out", "report.html", "Output HTML path")
	list := flag.Bool("list", false, "List run IDs and exit")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("Error: -db flag is required")
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer db.Close()

	runs, err := recorder.Runs(db)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		log.Fatal("Archive contains no runs")
	}

	if *list {
		for _, id := range runs {
			fmt.Println(id)
		}
		return
	}

	run := *runID
	if run == "" {
		run = runs[0]
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Telemetry arrival rate",
			Subtitle: "run " + run,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "frames/sec"}),
	)

	var labels []string
	for _, kind := range []string{recorder.KindFace, recorder.KindDepth, recorder.KindSkeleton} {
		buckets, err := recorder.ArrivalRates(db, run, kind)
		if err != nil {
			log.Fatalf("Failed to query %s rates: %v", kind, err)
		}
		if len(buckets) == 0 {
			continue
		}

		data := make([]opts.LineData, 0, len(buckets))
		kindLabels := make([]string, 0, len(buckets))
		for _, b := range buckets {
			kindLabels = append(kindLabels, time.Unix(b.Second, 0).Format("15:04:05"))
			data = append(data, opts.LineData{Value: b.Count})
		}
		if len(kindLabels) > len(labels) {
			labels = kindLabels
		}
		line.AddSeries(kind, data)
	}
	if len(labels) == 0 {
		log.Fatalf("Run %s has no recorded frames", run)
	}
	line.SetXAxis(labels)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()
	if err := line.Render(f); err != nil {
		log.Fatalf("Failed to render chart: %v", err)
	}
	log.Printf("Wrote %s", *out)
}
