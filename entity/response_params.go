package entity

// Callback field names as sent by the gateway, case-sensitive.
const (
	FieldOperation   = "OPERATION"
	FieldOrderNumber = "ORDERNUMBER"
	FieldPrCode      = "PRCODE"
	FieldSrCode      = "SRCODE"
	FieldResultText  = "RESULTTEXT"
	FieldDigest      = "DIGEST"
	FieldDigest1     = "DIGEST1"
)

// ResponseParams holds the fields of a gateway callback.
type ResponseParams map[string]string

// Get returns the value of the field, or an empty string if it is missing.
func (p ResponseParams) Get(name string) string {
	if p == nil {
		return ""
	}
	return p[name]
}

// ResponseParamsFromValues takes the first value of every field,
// e.g. from url.Values of a query string or a parsed form.
func ResponseParamsFromValues(values map[string][]string) ResponseParams {
	params := make(ResponseParams, len(values))
	for name, v := range values {
		if len(v) > 0 {
			params[name] = v[0]
		}
	}
	return params
}

// Outcome is the result of checking a gateway callback.
type Outcome int

const (
	// OutcomeInauthentic means at least one of the two signatures did not verify.
	OutcomeInauthentic Outcome = iota
	// OutcomeDeclined means the callback is authentic but PRCODE/SRCODE are not both "0".
	OutcomeDeclined
	// OutcomeSuccess means the callback is authentic and the payment succeeded.
	OutcomeSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeDeclined:
		return "declined"
	default:
		return "inauthentic"
	}
}
