// Command har-datareader prepares the daphnet dataset found under ./daphnet/dataset
// and writes ./daphnet/daphnet.h5 and ./daphnet/daphnet.h5.classes.json.
//
// HAR_DATASET, HAR_ROOT and HAR_OUT override the dataset, its root and the
// output directory; roots and outputs may be s3:// paths. HAR_SUMMARY=false
// turns off the per-split summary.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kiteco/hardata/kite-golib/envutil"
	"github.com/kiteco/hardata/kite-golib/errors"
	"github.com/kiteco/hardata/kite-golib/kitelog"
	"github.com/kiteco/hardata/local-pipelines/har-datareader/internal/datareader"
	"github.com/kiteco/hardata/local-pipelines/har-datareader/internal/datasets"
)

func fail(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	dataset := envutil.GetenvDefault("HAR_DATASET", "daphnet")
	root := envutil.GetenvDefault("HAR_ROOT", "daphnet")
	out := envutil.GetenvDefault("HAR_OUT", "")
	summary := envutil.GetenvDefaultBool("HAR_SUMMARY", true)

	start := time.Now()
	progress := kitelog.NewStdout()

	dr, err := datareader.New(dataset, root, datareader.Options{
		Logger:    progress,
		Durations: &progress.Durations,
		OutDir:    out,
	})
	if errors.Is(err, datasets.ErrUnsupportedDataset) {
		fmt.Println("Dataset is not yet supported!")
		fmt.Printf("Supported datasets: %v\n", datasets.Names())
		os.Exit(1)
	}
	fail(err)

	if summary {
		for _, s := range datareader.Summarize(dr.Bundle) {
			kitelog.Basic.Println(s)
		}
	}
	progress.Durations.Record("total", time.Since(start))
	progress.Durations.Flush(kitelog.Basic)
}
