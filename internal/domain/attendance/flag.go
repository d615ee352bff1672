package attendance

import "strings"

// Flag is the attendance flag recorded for one employee-day.
type Flag int

const (
	FlagUnknown Flag = iota
	FlagBlank
	FlagPresent
	FlagOnDuty
	FlagAbsent
	FlagSickLeave
	FlagCasualLeave
	FlagExtraLeave
	FlagWorkFromHome
	FlagWeekend
	FlagHoliday
)

// Category is the semantic class a flag falls into.
type Category int

const (
	CategoryNonCountable Category = iota
	CategoryCountable
	CategoryRestDay
)

func (c Category) String() string {
	switch c {
	case CategoryCountable:
		return "countable"
	case CategoryRestDay:
		return "rest_day"
	default:
		return "non_countable"
	}
}

var flagCodes = map[Flag]string{
	FlagUnknown:      "?",
	FlagBlank:        "",
	FlagPresent:      "P",
	FlagOnDuty:       "OD",
	FlagAbsent:       "A",
	FlagSickLeave:    "SL",
	FlagCasualLeave:  "CL",
	FlagExtraLeave:   "EL",
	FlagWorkFromHome: "WFH",
	FlagWeekend:      "W",
	FlagHoliday:      "H",
}

// flagAliases is keyed by the folded form produced by foldFlag.
var flagAliases = map[string]Flag{
	"":                  FlagBlank,
	"p":                 FlagPresent,
	"present":           FlagPresent,
	"od":                FlagOnDuty,
	"onduty":            FlagOnDuty,
	"a":                 FlagAbsent,
	"absent":            FlagAbsent,
	"sl":                FlagSickLeave,
	"sick":              FlagSickLeave,
	"sickleave":         FlagSickLeave,
	"cl":                FlagCasualLeave,
	"casual":            FlagCasualLeave,
	"casualleave":       FlagCasualLeave,
	"el":                FlagExtraLeave,
	"extraleave":        FlagExtraLeave,
	"wfh":               FlagWorkFromHome,
	"wfhl":              FlagWorkFromHome,
	"workfromhome":      FlagWorkFromHome,
	"workfromhomeleave": FlagWorkFromHome,
	"w":                 FlagWeekend,
	"weekend":           FlagWeekend,
	"h":                 FlagHoliday,
	"holiday":           FlagHoliday,
}

// ParseFlag maps a raw flag value to a Flag. Matching ignores case, spaces,
// dashes and underscores. Unrecognised values map to FlagUnknown.
func ParseFlag(raw string) Flag {
	if f, ok := flagAliases[foldFlag(raw)]; ok {
		return f
	}
	return FlagUnknown
}

func foldFlag(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch r {
		case ' ', '-', '_', '.', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Code returns the short spreadsheet code for the flag.
func (f Flag) Code() string {
	return flagCodes[f]
}

func (f Flag) String() string {
	if f == FlagBlank {
		return "blank"
	}
	return flagCodes[f]
}

// Category classifies the flag. This is the only place the flag taxonomy is defined.
func (f Flag) Category() Category {
	switch f {
	case FlagPresent, FlagOnDuty, FlagBlank:
		return CategoryCountable
	case FlagWeekend, FlagHoliday:
		return CategoryRestDay
	default:
		return CategoryNonCountable
	}
}

// Classify parses and classifies a raw flag value.
func Classify(raw string) Category {
	return ParseFlag(raw).Category()
}

// IsRestDay reports whether the day is a weekend or holiday.
func (f Flag) IsRestDay() bool {
	return f.Category() == CategoryRestDay
}

// CountsForOnTime reports whether the day counts as a present day for punctuality.
func (f Flag) CountsForOnTime() bool {
	return f == FlagPresent || f == FlagOnDuty
}

// CountsForCompletion reports whether the day counts toward work-hour completion.
func (f Flag) CountsForCompletion() bool {
	return f == FlagPresent || f == FlagOnDuty
}

// AccruesLoss reports whether a shortfall on this day counts as lost hours.
func (f Flag) AccruesLoss() bool {
	return f.Category() == CategoryCountable
}

// IsWorkable reports whether the day belongs to the workable set used as the
// denominator of leave ratios. Unlike Countable it excludes blank days and
// includes leave days.
func (f Flag) IsWorkable() bool {
	switch f {
	case FlagPresent, FlagOnDuty, FlagAbsent, FlagSickLeave, FlagCasualLeave, FlagExtraLeave, FlagWorkFromHome:
		return true
	}
	return false
}

// IsAdjacencyLeave reports whether the flag is a leave type tracked for
// rest-day adjacency.
func (f Flag) IsAdjacencyLeave() bool {
	return f == FlagSickLeave || f == FlagCasualLeave || f == FlagAbsent
}
