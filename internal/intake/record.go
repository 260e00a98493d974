package intake

import (
	"context"
	"strings"
)

// Payload is the wire form of one completed registration: every schema
// field plus the derived intake composite.
type Payload struct {
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName"`
	LastName       string `json:"lastName"`
	DateOfBirth    string `json:"dateOfBirth"`
	Gender         string `json:"gender"`
	MaritalStatus  string `json:"maritalStatus"`
	NIN            string `json:"nin"`
	RankLevel      string `json:"rankLevel"`
	Rank           string `json:"rank"`
	Qualification  string `json:"qualification"`
	IntakeCategory string `json:"intakeCategory"`
	IntakeNumber   string `json:"intakeNumber"`
	// Intake is the derived composite of category and number, e.g.
	// "Intake IV".
	Intake          string `json:"intake"`
	AppointmentDate string `json:"appointmentDate"`
	StaffID         string `json:"staffId"`
	ServiceNumber   string `json:"serviceNumber"`
	Email           string `json:"email"`
	BankName        string `json:"bankName"`
	AccountNumber   string `json:"accountNumber"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	EmergencyName   string `json:"emergencyContactName"`
	EmergencyPhone  string `json:"emergencyContactNumber"`
}

// Payload builds the submission payload from the current values.
func (f *Form) Payload() Payload {
	v := f.fields.Values()
	category := v[FieldIntakeCategory]
	number := v[FieldIntakeNumber]

	return Payload{
		FirstName:       v[FieldFirstName],
		MiddleName:      v[FieldMiddleName],
		LastName:        v[FieldLastName],
		DateOfBirth:     v[FieldDateOfBirth],
		Gender:          v[FieldGender],
		MaritalStatus:   v[FieldMaritalStatus],
		NIN:             v[FieldNIN],
		RankLevel:       v[FieldRankLevel],
		Rank:            v[FieldRank],
		Qualification:   v[FieldQualification],
		IntakeCategory:  category,
		IntakeNumber:    number,
		Intake:          strings.TrimSpace(category + " " + number),
		AppointmentDate: v[FieldAppointmentDate],
		StaffID:         v[FieldStaffID],
		ServiceNumber:   v[FieldServiceNumber],
		Email:           v[FieldEmail],
		BankName:        v[FieldBankName],
		AccountNumber:   v[FieldAccountNumber],
		Address:         v[FieldAddress],
		Phone:           v[FieldPhone],
		EmergencyName:   v[FieldEmergencyName],
		EmergencyPhone:  v[FieldEmergencyPhone],
	}
}

// SubmitResult is the outcome of one submission attempt.
type SubmitResult struct {
	// OK is true for any 2xx endpoint response.
	OK bool

	// Message is the endpoint-provided message when present, otherwise a
	// generic success or failure text.
	Message string
}

// Submitter delivers a payload to the persistence endpoint. Implementations
// do not retry; one call is at most one request.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) SubmitResult
}
