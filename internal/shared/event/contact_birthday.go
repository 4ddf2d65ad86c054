package event

const ContactBirthdayDestination string = "contact_birthday"
const ContactBirthdayConsumerGreeting string = "contact_birthday_greeting"

type ContactBirthdayMessage struct {
	ContactID int64  `json:"contact_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Date      string `json:"date"` // YYYY-MM-DD, the day the birthday was detected
}
