// Command reportstub serves canned credit reports over the report API's
// POST protocol for container-based UI tests.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
	testcommon "github.com/bobmcallan/xtrillion-portal/tests/common"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	fixtures := flag.String("fixtures", "tests/fixtures/reports.json", "Fixtures file")
	flag.Parse()

	// stdout is what the test harness collects from containers
	logger := common.NewLoggerWithOutput("info", os.Stdout)

	f, err := testcommon.LoadFixtures(*fixtures)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load fixtures")
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/process_json", testcommon.NewReportStub(f))

	logger.Info().
		Str("addr", *addr).
		Int("countries", len(f.Countries)).
		Int("funds", len(f.Funds)).
		Msg("report stub listening")

	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error().Err(err).Msg("report stub stopped")
		os.Exit(1)
	}
}
