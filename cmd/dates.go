package main

import (
	"fmt"
	"regexp"
	"time"
)

// date handling: source systems deliver either full dates ("2021-06-15") or
// bare years ("2021").  bare years expand to full-year ranges; everything else
// that does not match either pattern is ignored.

const dayFormat = "2006-01-02"

var reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var reYear = regexp.MustCompile(`^\d{4}$`)

func isISODate(s string) bool {
	return reISODate.MatchString(s)
}

func isYear(s string) bool {
	return reYear.MatchString(s)
}

func yearBounds(year string) (string, string) {
	return fmt.Sprintf("%s-01-01", year), fmt.Sprintf("%s-12-31", year)
}

// expand a single endpoint to a concrete date, picking the year boundary
// appropriate for its position in a range
func expandEndpoint(val string, isFrom bool) string {
	switch {
	case isISODate(val):
		return val

	case isYear(val):
		from, to := yearBounds(val)
		if isFrom == true {
			return from
		}
		return to

	default:
		return ""
	}
}

type extractedDates struct {
	dates  []string
	ranges [][2]string
}

// classify one standalone date value: full dates stay discrete, bare years
// become full-year ranges
func (ed *extractedDates) addDate(val string) {
	switch {
	case isISODate(val):
		ed.dates = append(ed.dates, val)

	case isYear(val):
		from, to := yearBounds(val)
		ed.ranges = append(ed.ranges, [2]string{from, to})
	}
}

// classify a range: both endpoints present produce one range row (years
// expanded to year boundaries independently); a single endpoint degrades to a
// standalone date extraction on that endpoint
func (ed *extractedDates) addRange(from, to string) {
	switch {
	case from != "" && to != "":
		f := expandEndpoint(from, true)
		t := expandEndpoint(to, false)

		if f == "" || t == "" {
			return
		}

		ed.ranges = append(ed.ranges, [2]string{f, t})

	case from != "":
		ed.addDate(from)

	case to != "":
		ed.addDate(to)
	}
}

func decodeList(val interface{}, out interface{}) bool {
	if val == nil {
		return false
	}

	if err := decodeValue(out, val); err != nil {
		return false
	}

	return true
}

// scan the fixed set of date-bearing field shapes in a record's data object
func extractRecordDates(rec rawRecord) extractedDates {
	var ed extractedDates

	data := rec.data()
	if data == nil {
		return ed
	}

	if val := data.str("date"); val != "" {
		ed.addDate(val)
	}

	var dls []dateLocation
	if decodeList(data["date_location"], &dls) == true {
		for _, dl := range dls {
			ed.addDate(dl.Date)
		}
	}

	dls = nil
	if decodeList(data["date_location_description"], &dls) == true {
		for _, dl := range dls {
			ed.addDate(dl.Date)
		}
	}

	var dols []dateOpeningLocation
	if decodeList(data["date_opening_location"], &dols) == true {
		for _, dol := range dols {
			ed.addRange(dol.DateFrom, dol.DateTo)

			if dol.Opening != nil {
				ed.addDate(dol.Opening.Date)
			}
		}
	}

	var dr dateRange
	if decodeList(data["date_range"], &dr) == true {
		ed.addRange(dr.DateFrom, dr.DateTo)
	}

	var drls []dateRangeLocation
	if decodeList(data["date_range_location"], &drls) == true {
		for _, drl := range drls {
			ed.addRange(drl.DateFrom, drl.DateTo)
		}
	}

	var drtls []dateRangeTimeRangeLocation
	if decodeList(data["date_range_time_range_location"], &drtls) == true {
		for _, drtl := range drtls {
			ed.addRange(drtl.DateFrom, drtl.DateTo)
		}
	}

	var dtls []dateTimeRangeLocation
	if decodeList(data["date_time_range_location"], &dtls) == true {
		for _, dtl := range dtls {
			ed.addDate(dtl.Date)
		}
	}

	return ed
}

// every discrete date and every range endpoint, as concrete dates
func (ed *extractedDates) allDates() []string {
	var all []string

	all = append(all, ed.dates...)

	for _, r := range ed.ranges {
		all = append(all, r[0], r[1])
	}

	return all
}

// the greatest date attached to a record; empty when it has none
func mostRelevantDate(rec rawRecord) string {
	max := ""

	ed := extractRecordDates(rec)

	for _, val := range ed.allDates() {
		if val > max {
			max = val
		}
	}

	return max
}

// currentness rank: day distance to the reference date, with past distances
// weighted by a configured multiplier so that future dates outrank equally
// distant past dates.  lower rank = more relevant.
func dateRank(val string, ref time.Time, pastWeight float64) (float64, error) {
	d, err := time.Parse(dayFormat, val)
	if err != nil {
		return 0, err
	}

	ref = ref.Truncate(24 * time.Hour)

	days := d.Sub(ref).Hours() / 24

	if days < 0 {
		return -days * pastWeight, nil
	}

	return days, nil
}
