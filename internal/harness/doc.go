// Package harness runs conformance scenarios against result files.
//
// A scenario writes a result file from scratch through the same write path
// the library exposes, runs queries against it and asserts on what they
// resolve to. The trace of every scenario can be compared against a golden
// file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	days: 2
//	series:
//	  - name: Electricity:Facility
//	    meter: true
//	    frequency: Hourly
//	    units: J
//	    fill: { count: 24, value: 100 }
//	  - name: Zone Mean Air Temperature
//	    key: ZONE ONE
//	    frequency: Hourly
//	    units: C
//	    values: [20, 21]
//	maps:
//	  - name: ZONE ONE DAYLIGHT MAP
//	    zone: ZONE ONE
//	    start: "2009-01-01 12:00:00"
//	    x: [1, 2]
//	    y: [1]
//	    illuminance: [500, 450]
//	queries:
//	  - query: { environment: RUN PERIOD 1, frequency: Hourly }
//	    expect: { resolved: 2, samples: 26 }
//	assertions:
//	  - type: resolved_contains
//	    resolved: "RUN PERIOD 1/Hourly/Electricity:Facility[]"
//	  - type: meter_total
//	    meter: Electricity:Facility
//	    value: 2400
//	  - type: final_state
//	    table: ReportDataDictionary
//	    where: { Name: "Electricity:Facility" }
//	    expect: { IsMeter: 1, ReportingFrequency: Hourly }
//
// # Assertion Types
//
//   - resolved_contains: a series was read for the resolved query
//   - resolved_order: resolved queries were first read in this order
//   - series_count: exactly N series were read
//   - meter_total: a Sum meter totals the value in the summary data
//   - illuminance: every cell of a map report equals the value
//   - final_state: one row of a table holds the expected values
//
// # Deterministic Testing
//
// The calendar starts on January 1 of the base year, the simulation
// header carries a fixed timestamp and map reports are spaced by a step
// clock, so the same scenario always yields the same trace.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/hourly_meter.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario, dir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
