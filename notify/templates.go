package notify

import "fmt"

// Render produces the subject and HTML body for a notification kind.
func Render(kind Kind, data map[string]string) (subject, html string, err error) {
	switch kind {
	case KindPitchReceived:
		brokerage := data[DataBrokerageName]
		subject = fmt.Sprintf("New Pitch from %s", brokerage)
		html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2>You've Received a New Pitch!</h2>
<p>Great news! <strong>%s</strong> has sent you a pitch.</p>
<p>They're interested in having you join their brokerage and have prepared an offer for you to review.</p>
<p style="color: #666; font-size: 14px;">Your identity remains anonymous until you accept a pitch and the brokerage completes payment.</p>
</div>`, brokerage)
		return subject, html, nil

	case KindPitchDeclined:
		anonID := data[DataAgentAnonymousID]
		subject = fmt.Sprintf("Pitch Update: Agent %s", anonID)
		html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Pitch Update</h2>
<p>Unfortunately, <strong>Agent %s</strong> has decided to decline your pitch.</p>
<p>Don't be discouraged! There are many other talented agents looking for the right brokerage.</p>
</div>`, anonID)
		return subject, html, nil

	case KindPaymentComplete:
		brokerage := data[DataBrokerageName]
		greeting := "Hi there"
		if name := data[DataAgentName]; name != "" {
			greeting = "Hi " + name
		}
		subject = fmt.Sprintf("%s Has Completed Payment - Time to Connect!", brokerage)
		html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Payment Complete - Time to Connect!</h2>
<p>%s,</p>
<p><strong>%s</strong> has completed their payment for your accepted pitch.</p>
<p>Your contact information has now been shared with %s. They will reach out to you soon to discuss next steps.</p>
</div>`, greeting, brokerage, brokerage)
		return subject, html, nil
	}

	return "", "", fmt.Errorf("notify: unknown kind %q", kind)
}
