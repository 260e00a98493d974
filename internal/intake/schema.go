// Package intake implements the staff-data intake form: its field schema,
// step-gated navigation, dependent-field rules, progress tracking and the
// submission pipeline glue.
package intake

import (
	"github.com/emekaobi/staffintake/pkg/forms"
)

// Field names. These double as the JSON keys of the submission payload.
const (
	FieldFirstName       = "firstName"
	FieldMiddleName      = "middleName"
	FieldLastName        = "lastName"
	FieldDateOfBirth     = "dateOfBirth"
	FieldGender          = "gender"
	FieldMaritalStatus   = "maritalStatus"
	FieldNIN             = "nin"
	FieldRankLevel       = "rankLevel"
	FieldRank            = "rank"
	FieldQualification   = "qualification"
	FieldIntakeCategory  = "intakeCategory"
	FieldIntakeNumber    = "intakeNumber"
	FieldAppointmentDate = "appointmentDate"
	FieldStaffID         = "staffId"
	FieldServiceNumber   = "serviceNumber"
	FieldEmail           = "email"
	FieldBankName        = "bankName"
	FieldAccountNumber   = "accountNumber"
	FieldAddress         = "address"
	FieldPhone           = "phone"
	FieldEmergencyName   = "emergencyContactName"
	FieldEmergencyPhone  = "emergencyContactNumber"
)

// Steps. Navigation is gated per step; submission only opens on the last.
const (
	StepPersonal = 1 + iota
	StepEmployment
	StepBanking
	StepContact

	stepCount = StepContact
)

var stepNames = map[int]string{
	StepPersonal:   "Personal",
	StepEmployment: "Employment",
	StepBanking:    "Banking",
	StepContact:    "Contact",
}

// stepFields assigns every schema field to exactly one step, in display
// order.
var stepFields = map[int][]string{
	StepPersonal: {
		FieldFirstName, FieldMiddleName, FieldLastName, FieldDateOfBirth,
		FieldGender, FieldMaritalStatus, FieldNIN,
	},
	StepEmployment: {
		FieldRankLevel, FieldRank, FieldQualification,
		FieldIntakeCategory, FieldIntakeNumber,
		FieldAppointmentDate, FieldStaffID, FieldServiceNumber, FieldEmail,
	},
	StepBanking: {
		FieldBankName, FieldAccountNumber,
	},
	StepContact: {
		FieldAddress, FieldPhone, FieldEmergencyName, FieldEmergencyPhone,
	},
}

// Rank level values and their dependent rank option sets.
const (
	RankLevelSenior = "Senior Officer"
	RankLevelJunior = "Junior Officer"
)

var (
	seniorRanks = forms.Opts(
		"Assistant Superintendent II",
		"Assistant Superintendent I",
		"Deputy Superintendent",
		"Superintendent",
		"Chief Superintendent",
		"Assistant Commander",
		"Deputy Commander",
		"Commander",
	)
	juniorRanks = forms.Opts(
		"Assistant Inspector",
		"Inspector",
		"Senior Inspector",
		"Principal Inspector",
		"Chief Inspector",
	)
)

// Intake category values. The Intake category constrains the paired number
// to Roman numerals; any other category only requires the number to be
// present.
const (
	CategoryIntake = "Intake"
	CategoryCourse = "Course"
)

var (
	genderOptions  = forms.Opts("Male", "Female")
	maritalOptions = forms.Opts("Single", "Married", "Divorced", "Widowed")
	rankLevels     = forms.Opts(RankLevelSenior, RankLevelJunior)
	qualifications = forms.Opts("SSCE", "OND", "NCE", "HND", "BSc", "MSc", "PhD")
	categories     = forms.Opts(CategoryIntake, CategoryCourse)
)

// Phone rule variants. The canonical variant is a deployment choice
// (config phone_format); local is the default.
var (
	phoneRuleLocal = forms.Pattern(`^0\d{9,}$`,
		"Must start with 0 and contain at least 10 digits")
	phoneRuleInternational = forms.Pattern(`^\+\d{10,15}$`,
		"Must start with + followed by 10 to 15 digits")
)

func phoneRule(format string) forms.Rule {
	if format == "international" {
		return phoneRuleInternational
	}
	return phoneRuleLocal
}

// Schema returns the full field schema. phoneFormat selects the phone rule
// variant ("local" or "international").
func Schema(phoneFormat string) []forms.Field {
	phone := phoneRule(phoneFormat)

	return []forms.Field{
		forms.NewField(FieldFirstName, forms.FieldText, "First Name",
			forms.Required(), forms.WithRules(forms.MinLength(2))),
		forms.NewField(FieldMiddleName, forms.FieldText, "Middle Name"),
		forms.NewField(FieldLastName, forms.FieldText, "Last Name",
			forms.Required(), forms.WithRules(forms.MinLength(2))),
		forms.NewField(FieldDateOfBirth, forms.FieldDate, "Date of Birth",
			forms.Required(), forms.WithRules(forms.Date())),
		forms.NewField(FieldGender, forms.FieldSelect, "Gender",
			forms.Required(), forms.WithOptions(genderOptions...)),
		forms.NewField(FieldMaritalStatus, forms.FieldSelect, "Marital Status",
			forms.Required(), forms.WithOptions(maritalOptions...)),
		forms.NewField(FieldNIN, forms.FieldText, "National Identification Number",
			forms.Required()),

		forms.NewField(FieldRankLevel, forms.FieldSelect, "Level of Rank",
			forms.Required(), forms.WithOptions(rankLevels...)),
		forms.NewField(FieldRank, forms.FieldSelect, "Rank",
			forms.Required()),
		forms.NewField(FieldQualification, forms.FieldSelect, "Qualification",
			forms.Required(), forms.WithOptions(qualifications...)),
		forms.NewField(FieldIntakeCategory, forms.FieldSelect, "Intake / Course",
			forms.WithOptions(categories...)),
		forms.NewField(FieldIntakeNumber, forms.FieldText, "Intake / Course Number",
			forms.WithPlaceholder("e.g. IV")),
		forms.NewField(FieldAppointmentDate, forms.FieldDate, "Date of First Appointment",
			forms.Required(), forms.WithRules(forms.Date())),
		forms.NewField(FieldStaffID, forms.FieldText, "Staff ID",
			forms.Required()),
		forms.NewField(FieldServiceNumber, forms.FieldText, "Service Number",
			forms.Required()),
		forms.NewField(FieldEmail, forms.FieldEmail, "Email Address",
			forms.Required(), forms.WithRules(forms.Email())),

		forms.NewField(FieldBankName, forms.FieldText, "Bank Name",
			forms.Required()),
		forms.NewField(FieldAccountNumber, forms.FieldText, "Account Number",
			forms.Required(), forms.WithRules(forms.Digits(10)),
			forms.WithPlaceholder("At least 10 digits")),

		forms.NewField(FieldAddress, forms.FieldTextarea, "Postal Address",
			forms.Required(), forms.WithRules(forms.MinLength(5))),
		forms.NewField(FieldPhone, forms.FieldTel, "Phone Number",
			forms.Required(), forms.WithRules(phone)),
		forms.NewField(FieldEmergencyName, forms.FieldText, "Emergency Contact Name",
			forms.Required(), forms.WithRules(forms.MinLength(2))),
		forms.NewField(FieldEmergencyPhone, forms.FieldTel, "Emergency Contact Number",
			forms.Required(), forms.WithRules(phone)),
	}
}

// StepName returns the display name of a step.
func StepName(step int) string {
	return stepNames[step]
}

// StepCount returns the number of steps.
func StepCount() int {
	return stepCount
}
