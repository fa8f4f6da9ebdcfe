package entity

import "time"

// PaymentResult is the stored record of a processed gateway callback.
type PaymentResult struct {
	OrderNumber string    `json:"order_number" bson:"order_number"`
	Operation   string    `json:"operation" bson:"operation"`
	PrCode      string    `json:"pr_code" bson:"pr_code"`
	SrCode      string    `json:"sr_code" bson:"sr_code"`
	ResultText  string    `json:"result_text" bson:"result_text"`
	Outcome     string    `json:"outcome" bson:"outcome"`
	Time        time.Time `json:"time" bson:"time"`
}

func (r *PaymentResult) DataType() string {
	return "payment_result"
}

// LogMessage is a log line mirrored into the database.
type LogMessage struct {
	Time     time.Time `json:"time" bson:"time"`
	Level    string    `json:"level" bson:"level"`
	Category string    `json:"category" bson:"category"`
	Text     string    `json:"text" bson:"text"`
}

func (l *LogMessage) DataType() string {
	return "log_message"
}
