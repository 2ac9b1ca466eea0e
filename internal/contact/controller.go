package contact

// Draft is the transient state of the contact form.
type Draft struct {
	SenderName  string `json:"name"`
	MessageBody string `json:"message"`
	Subject     string `json:"subject"`
}

// Submission is what a submit produces: the URI to navigate to and the
// decoded parts it was built from.
type Submission struct {
	URI       string `json:"uri"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Controller owns one Draft for the lifetime of a page visit. It is not safe
// for concurrent use; each visit gets its own controller.
//
// The controller never validates its fields and never clears them: required
// fields are enforced by the form before Submit is reached, and a submitted
// draft stays in place until the visit ends.
type Controller struct {
	recipient   string
	draft       Draft
	submissions int
}

// NewController returns a controller with empty name and message and the
// given default subject.
func NewController(recipient, subject string) *Controller {
	return &Controller{
		recipient: recipient,
		draft:     Draft{Subject: subject},
	}
}

// UpdateSenderName replaces the sender name.
func (c *Controller) UpdateSenderName(text string) {
	c.draft.SenderName = text
}

// UpdateMessageBody replaces the message text.
func (c *Controller) UpdateMessageBody(text string) {
	c.draft.MessageBody = text
}

// UpdateSubject replaces the subject.
func (c *Controller) UpdateSubject(text string) {
	c.draft.Subject = text
}

// Draft returns the current field values.
func (c *Controller) Draft() Draft {
	return c.draft
}

// Recipient returns the fixed recipient address.
func (c *Controller) Recipient() string {
	return c.recipient
}

// Submitted reports whether Submit has been called at least once.
func (c *Controller) Submitted() bool {
	return c.submissions > 0
}

// Submissions returns how many times Submit has been called.
func (c *Controller) Submissions() int {
	return c.submissions
}

// Submit builds the mailto: URI for the current draft. Calling it again
// regenerates the URI from whatever the draft holds at that point.
func (c *Controller) Submit() Submission {
	c.submissions++

	body := ComposeBody(c.draft.SenderName, c.draft.MessageBody)
	return Submission{
		URI:       BuildMailto(c.recipient, c.draft.Subject, body),
		Recipient: c.recipient,
		Subject:   c.draft.Subject,
		Body:      body,
	}
}
