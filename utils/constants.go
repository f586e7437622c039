package utils

// Lead field names as they appear on the wire and in the log
const (
	FieldName      = "name"
	FieldBusiness  = "business"
	FieldPhone     = "phone"
	FieldEmail     = "email"
	FieldService   = "service"
	FieldTimeframe = "timeframe"
	FieldNotes     = "notes"
)

// Length limits in code points
const (
	MaxNameLength      = 100
	MaxBusinessLength  = 140
	MinPhoneLength     = 7
	MaxPhoneLength     = 40
	MaxServiceLength   = 140
	MaxTimeframeLength = 80
	MaxNotesLength     = 800
)

// MaxLeadBodyBytes caps the size of a lead submission body.
const MaxLeadBodyBytes = 64 << 10
