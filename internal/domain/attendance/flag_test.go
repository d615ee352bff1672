package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlag(t *testing.T) {
	cases := map[string]Flag{
		"P":                    FlagPresent,
		" present ":            FlagPresent,
		"OD":                   FlagOnDuty,
		"on duty":              FlagOnDuty,
		"On-Duty":              FlagOnDuty,
		"on_duty":              FlagOnDuty,
		"A":                    FlagAbsent,
		"SickLeave":            FlagSickLeave,
		"cl":                   FlagCasualLeave,
		"Extra Leave":          FlagExtraLeave,
		"WorkFromHomeLeave":    FlagWorkFromHome,
		"WFH":                  FlagWorkFromHome,
		"weekend":              FlagWeekend,
		"H":                    FlagHoliday,
		"":                     FlagBlank,
		"   ":                  FlagBlank,
		"maternity":            FlagUnknown,
		"present but not here": FlagUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseFlag(raw), "ParseFlag(%q)", raw)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, CategoryCountable, Classify("P"))
	assert.Equal(t, CategoryCountable, Classify("OD"))
	assert.Equal(t, CategoryCountable, Classify(""))
	assert.Equal(t, CategoryRestDay, Classify("W"))
	assert.Equal(t, CategoryRestDay, Classify("Holiday"))
	assert.Equal(t, CategoryNonCountable, Classify("SL"))
	assert.Equal(t, CategoryNonCountable, Classify("A"))
	assert.Equal(t, CategoryNonCountable, Classify("???"))
	assert.Equal(t, "rest_day", CategoryRestDay.String())
}

func TestFlagRuleSets(t *testing.T) {
	all := []Flag{
		FlagUnknown, FlagBlank, FlagPresent, FlagOnDuty, FlagAbsent, FlagSickLeave,
		FlagCasualLeave, FlagExtraLeave, FlagWorkFromHome, FlagWeekend, FlagHoliday,
	}
	for _, f := range all {
		if f.CountsForOnTime() || f.CountsForCompletion() {
			assert.True(t, f.AccruesLoss(), "%s counts as present but does not accrue loss", f)
		}
		if f.IsRestDay() {
			assert.False(t, f.IsWorkable(), "%s", f)
			assert.False(t, f.AccruesLoss(), "%s", f)
		}
	}

	assert.True(t, FlagBlank.AccruesLoss())
	assert.False(t, FlagBlank.IsWorkable())
	assert.False(t, FlagSickLeave.AccruesLoss())
	assert.True(t, FlagSickLeave.IsWorkable())
	assert.True(t, FlagAbsent.IsAdjacencyLeave())
	assert.False(t, FlagExtraLeave.IsAdjacencyLeave())
	assert.Equal(t, "OD", FlagOnDuty.Code())
	assert.Equal(t, "blank", FlagBlank.String())
}
