package baserow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	bareDateRe  = regexp.MustCompile(`^(\d{2,4})[-/](\d{1,2})[-/](\d{1,2})$`)
	dateTimeRe  = regexp.MustCompile(`^(\d{2,4})[-/](\d{1,2})[-/](\d{1,2})T(\d{2}):(\d{2}):(\d{2})(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
)

var dateOperators = stringSetOperators(
	"date_equal", "date_not_equal", "date_equals_today", "date_before_today", "date_after_today",
	"date_within_days", "date_within_weeks", "date_within_months",
	"date_equals_days_ago", "date_equals_months_ago", "date_equals_years_ago",
	"date_equals_week", "date_equals_month", "date_equals_year", "date_equals_day_of_month",
	"date_before", "date_before_or_equal", "date_after", "date_after_or_equal", "date_after_days_ago",
	"contains", "contains_not", "empty", "not_empty",
)

// dateDescriptor implements the date/last_modified/created_on family. The
// latter two are always forced read-only, matching the server's own
// discipline for server-computed timestamp columns.
type dateDescriptor struct {
	dateFormat     string // US, EU, ISO
	includeTime    bool
	timeFormat     string // 12, 24
	showTZ         bool
	forcedTZ       string
	forcedReadOnly bool
}

func newDateDescriptorFor(forcedReadOnly bool) descriptorFactory {
	return func(name string, data map[string]any) (fieldDescriptor, error) {
		d := dateDescriptor{
			dateFormat:     "EU",
			includeTime:    true,
			timeFormat:     "24",
			forcedReadOnly: forcedReadOnly,
		}
		if v, ok := data["date_format"].(string); ok && v != "" {
			d.dateFormat = v
		}
		if d.dateFormat != "US" && d.dateFormat != "EU" && d.dateFormat != "ISO" {
			return nil, newError(KindFieldValidation, fmt.Sprintf("date_format must be US, EU, or ISO, got %q", d.dateFormat)).withField(name)
		}
		if v, ok := data["date_include_time"].(bool); ok {
			d.includeTime = v
		}
		if v, ok := data["date_time_format"].(string); ok && v != "" {
			d.timeFormat = v
		}
		if d.timeFormat != "12" && d.timeFormat != "24" {
			return nil, newError(KindFieldValidation, fmt.Sprintf("date_time_format must be 12 or 24, got %q", d.timeFormat)).withField(name)
		}
		if v, ok := data["date_show_tzinfo"].(bool); ok {
			d.showTZ = v
		}
		if v, ok := data["date_force_timezone"].(string); ok {
			d.forcedTZ = v
		}
		return d, nil
	}
}

// normalize canonicalizes a user-supplied date/datetime string into the
// wire shape the server expects. It accepts bare YYYY-MM-DD, slash-separated
// YYYY/MM/DD, two-digit years, and single-digit month/day, zero-padding and
// expanding as needed. Full timestamps with optional fractional seconds and
// Z or +HH:MM offsets get the same date canonicalization; the fractional
// seconds are dropped, and a timestamp without an offset gets "Z".
func (d dateDescriptor) normalize(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", newError(KindFieldValidation, fmt.Sprintf("expected string date, got %T", value))
	}

	hasTime := strings.Contains(s, "T")
	if hasTime && !d.includeTime {
		return "", newError(KindFieldValidation, fmt.Sprintf("value %q carries a time component but this field does not include time", s))
	}

	if hasTime {
		m := dateTimeRe.FindStringSubmatch(s)
		if m == nil {
			return "", newError(KindFieldValidation, fmt.Sprintf("value %q is not a recognized date-time format", s))
		}
		year, month, day := normalizeDateParts(m[1], m[2], m[3])
		hh, mm, ss := m[4], m[5], m[6]
		tz := m[8]
		if tz == "" {
			tz = "Z"
		}
		return fmt.Sprintf("%s-%s-%sT%s:%s:%s%s", year, month, day, hh, mm, ss, tz), nil
	}

	m := bareDateRe.FindStringSubmatch(s)
	if m == nil {
		return "", newError(KindFieldValidation, fmt.Sprintf("value %q is not a recognized date format", s))
	}
	year, month, day := normalizeDateParts(m[1], m[2], m[3])
	if d.includeTime {
		return fmt.Sprintf("%s-%s-%sT00:00:00Z", year, month, day), nil
	}
	return fmt.Sprintf("%s-%s-%s", year, month, day), nil
}

func normalizeDateParts(yy, mm, dd string) (year, month, day string) {
	if len(yy) == 2 {
		yy = "20" + yy
	}
	year = yy
	if mi, err := strconv.Atoi(mm); err == nil {
		month = fmt.Sprintf("%02d", mi)
	} else {
		month = mm
	}
	if di, err := strconv.Atoi(dd); err == nil {
		day = fmt.Sprintf("%02d", di)
	} else {
		day = dd
	}
	return
}

func (d dateDescriptor) Validate(value any) error {
	if value == nil {
		return nil
	}
	_, err := d.normalize(value)
	return err
}

func (d dateDescriptor) FormatForAPI(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return d.normalize(value)
}

func (dateDescriptor) CompatibleOperators() map[string]bool { return dateOperators }
func (d dateDescriptor) ForcedReadOnly() bool                { return d.forcedReadOnly }

func init() {
	registerDescriptor("date", newDateDescriptorFor(false))
	registerDescriptor("last_modified", newDateDescriptorFor(true))
	registerDescriptor("created_on", newDateDescriptorFor(true))
}
