package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emekaobi/staffintake/pkg/forms"
)

// fillStep populates every required field of one step with passing values.
func fillStep(f *Form, step int) {
	switch step {
	case StepPersonal:
		f.Set(FieldFirstName, "Amina")
		f.Set(FieldLastName, "Bello")
		f.Set(FieldDateOfBirth, "1992-03-14")
		f.Set(FieldGender, "Female")
		f.Set(FieldMaritalStatus, "Single")
		f.Set(FieldNIN, "12345678901")
	case StepEmployment:
		f.Set(FieldRankLevel, RankLevelJunior)
		f.Set(FieldRank, "Inspector")
		f.Set(FieldQualification, "HND")
		f.Set(FieldAppointmentDate, "2020-01-06")
		f.Set(FieldStaffID, "STF-0042")
		f.Set(FieldServiceNumber, "SVC-11900")
		f.Set(FieldEmail, "amina.bello@example.org")
	case StepBanking:
		f.Set(FieldBankName, "First Bank")
		f.Set(FieldAccountNumber, "0123456789")
	case StepContact:
		f.Set(FieldAddress, "12 Marina Road, Lagos")
		f.Set(FieldPhone, "08031234567")
		f.Set(FieldEmergencyName, "Kunle Bello")
		f.Set(FieldEmergencyPhone, "08087654321")
	}
}

func findField(t *testing.T, f *Form, name string) forms.Field {
	t.Helper()
	for step := StepPersonal; step <= StepContact; step++ {
		for _, fd := range f.StepFields(step) {
			if fd.Name == name {
				return fd
			}
		}
	}
	t.Fatalf("field %q not in any step", name)
	return forms.Field{}
}

func filledForm(t *testing.T) *Form {
	t.Helper()
	f := NewForm(Options{})
	for step := StepPersonal; step <= StepContact; step++ {
		fillStep(f, step)
	}
	return f
}

func TestAdvanceGatedOnStepValidity(t *testing.T) {
	f := NewForm(Options{})

	assert.False(t, f.Advance(), "empty step 1 blocks forward navigation")
	assert.Equal(t, StepPersonal, f.Step())
	assert.Equal(t, forms.RequiredMessage, f.FirstError(FieldFirstName))

	fillStep(f, StepPersonal)
	assert.True(t, f.Advance())
	assert.Equal(t, StepEmployment, f.Step())
}

func TestAdvanceThroughAllSteps(t *testing.T) {
	f := NewForm(Options{})

	for step := StepPersonal; step <= StepContact; step++ {
		require.Equal(t, step, f.Step())
		fillStep(f, step)
		require.True(t, f.StepValid(step), "step %d should validate", step)
		f.Advance()
	}

	assert.Equal(t, StepContact, f.Step(), "advance past the last step is a no-op")
	assert.True(t, f.ValidateAll())
}

func TestClearingRequiredFieldBlocksAdvance(t *testing.T) {
	f := NewForm(Options{})
	fillStep(f, StepPersonal)
	require.True(t, f.StepValid(StepPersonal))

	f.Set(FieldNIN, "")
	assert.False(t, f.StepValid(StepPersonal))
	assert.False(t, f.Advance())
	assert.Equal(t, StepPersonal, f.Step())
}

func TestRetreatAndGoTo(t *testing.T) {
	f := NewForm(Options{})

	f.Retreat()
	assert.Equal(t, StepPersonal, f.Step(), "retreat below step 1 is a no-op")

	f.GoTo(StepBanking)
	assert.Equal(t, StepBanking, f.Step(), "goto jumps without validation")

	f.Retreat()
	assert.Equal(t, StepEmployment, f.Step())

	f.GoTo(99)
	assert.Equal(t, StepEmployment, f.Step(), "out-of-range goto is ignored")
}

func TestRankLevelChangeClearsRank(t *testing.T) {
	f := NewForm(Options{})

	f.Set(FieldRankLevel, RankLevelSenior)
	f.Set(FieldRank, "Superintendent")
	require.Equal(t, "Superintendent", f.Value(FieldRank))

	f.Set(FieldRankLevel, RankLevelJunior)
	assert.Empty(t, f.Value(FieldRank), "level change invalidates the chosen rank")

	rankField := findField(t, f, FieldRank)
	assert.Equal(t, juniorRanks, rankField.Options, "rank options narrowed to the junior set")
}

func TestRankLevelUnchangedKeepsRank(t *testing.T) {
	f := NewForm(Options{})

	f.Set(FieldRankLevel, RankLevelSenior)
	f.Set(FieldRank, "Commander")

	f.Set(FieldRankLevel, RankLevelSenior)
	assert.Equal(t, "Commander", f.Value(FieldRank), "re-selecting the same level is not a change")
}

func TestRankMustBelongToSelectedLevel(t *testing.T) {
	f := NewForm(Options{})
	f.Set(FieldRankLevel, RankLevelJunior)
	f.Set(FieldRank, "Commander")

	assert.NotEmpty(t, f.Errors(FieldRank), "a senior rank is invalid under the junior level")
}

func TestCategoryChangeClearsNumber(t *testing.T) {
	f := NewForm(Options{})

	f.Set(FieldIntakeCategory, CategoryIntake)
	f.Set(FieldIntakeNumber, "IV")
	require.Equal(t, "IV", f.Value(FieldIntakeNumber))

	f.Set(FieldIntakeCategory, CategoryCourse)
	assert.Empty(t, f.Value(FieldIntakeNumber), "category change invalidates the number")
}

func TestIntakeNumberRomanRule(t *testing.T) {
	f := NewForm(Options{})

	// Intake category demands a Roman numeral.
	f.Set(FieldIntakeCategory, CategoryIntake)
	f.Set(FieldIntakeNumber, "IV")
	assert.Empty(t, f.Errors(FieldIntakeNumber))

	f.Set(FieldIntakeNumber, "4")
	assert.NotEmpty(t, f.Errors(FieldIntakeNumber), "arabic digits rejected for Intake")

	// Course category accepts any non-empty number.
	f.Set(FieldIntakeCategory, CategoryCourse)
	f.Set(FieldIntakeNumber, "123")
	assert.Empty(t, f.Errors(FieldIntakeNumber))

	// Once a category is chosen the number becomes required.
	f.Set(FieldIntakeNumber, "")
	assert.Equal(t, forms.RequiredMessage, f.FirstError(FieldIntakeNumber))

	// No category, no constraint.
	f.Set(FieldIntakeCategory, "")
	assert.Empty(t, f.Errors(FieldIntakeNumber))
}

func TestIntakeNumberGatesEmploymentStepWhenRequired(t *testing.T) {
	f := NewForm(Options{})
	fillStep(f, StepEmployment)
	require.True(t, f.StepValid(StepEmployment))

	f.Set(FieldIntakeCategory, CategoryIntake)
	assert.False(t, f.StepValid(StepEmployment), "empty number blocks the step once required")

	f.Set(FieldIntakeNumber, "XII")
	assert.True(t, f.StepValid(StepEmployment))
}

func TestPhoneFormatVariants(t *testing.T) {
	local := NewForm(Options{PhoneFormat: "local"})
	local.Set(FieldPhone, "08031234567")
	assert.Empty(t, local.Errors(FieldPhone))
	local.Set(FieldPhone, "+2348031234567")
	assert.NotEmpty(t, local.Errors(FieldPhone))

	intl := NewForm(Options{PhoneFormat: "international"})
	intl.Set(FieldPhone, "+2348031234567")
	assert.Empty(t, intl.Errors(FieldPhone))
	intl.Set(FieldPhone, "08031234567")
	assert.NotEmpty(t, intl.Errors(FieldPhone))
}

func TestProgress(t *testing.T) {
	f := NewForm(Options{})
	assert.Equal(t, 0, f.Progress(), "empty record is 0%")

	f.Set(FieldFirstName, "Amina")
	assert.Equal(t, 5, f.Progress(), "1 of 22 fields rounds to 5%")

	prev := f.Progress()
	for step := StepPersonal; step <= StepContact; step++ {
		fillStep(f, step)
		cur := f.Progress()
		assert.GreaterOrEqual(t, cur, prev, "progress never decreases while filling")
		prev = cur
	}

	// Required fields alone leave the optional ones empty.
	assert.Less(t, f.Progress(), 100)

	f.Set(FieldMiddleName, "Chioma")
	f.Set(FieldIntakeCategory, CategoryIntake)
	f.Set(FieldIntakeNumber, "IV")
	assert.Equal(t, 100, f.Progress(), "every schema field filled is 100%")

	f.Set(FieldMiddleName, "")
	assert.Less(t, f.Progress(), 100, "clearing a field lowers progress")
}

func TestPayloadMergesIntakeComposite(t *testing.T) {
	f := filledForm(t)
	f.Set(FieldIntakeCategory, CategoryIntake)
	f.Set(FieldIntakeNumber, "IV")

	p := f.Payload()
	assert.Equal(t, "Intake IV", p.Intake)
	assert.Equal(t, "Amina", p.FirstName)
	assert.Equal(t, "0123456789", p.AccountNumber)

	f.Set(FieldIntakeCategory, "")
	assert.Empty(t, f.Payload().Intake, "no category leaves the composite empty")
}

func TestResetReturnsToInitialState(t *testing.T) {
	f := filledForm(t)
	f.GoTo(StepContact)
	require.Greater(t, f.Progress(), 0)

	f.Reset()
	assert.Equal(t, StepPersonal, f.Step())
	assert.Equal(t, 0, f.Progress())
	assert.Empty(t, f.Value(FieldFirstName))
	assert.False(t, f.Submitting())
}

func TestSnapshotRestore(t *testing.T) {
	f := filledForm(t)
	f.Set(FieldIntakeCategory, CategoryIntake)
	f.Set(FieldIntakeNumber, "IX")

	snap := f.Snapshot()

	g := NewForm(Options{})
	g.Restore(snap)

	assert.Equal(t, "Amina", g.Value(FieldFirstName))
	assert.Equal(t, "Inspector", g.Value(FieldRank), "restore keeps the dependent value")
	assert.Equal(t, "IX", g.Value(FieldIntakeNumber))

	// Dependent state is re-derived, not reset: the junior options are
	// back and the Roman rule applies.
	assert.Equal(t, juniorRanks, findField(t, g, FieldRank).Options)
	g.Set(FieldIntakeNumber, "7")
	assert.NotEmpty(t, g.Errors(FieldIntakeNumber))
}
