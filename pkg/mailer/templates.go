/**
 * @description
 * HTML email templates. Each template returns a ready-to-enqueue Email with
 * the subject and body filled; the recipient is attached by the caller.
 */

package mailer

import "fmt"

const emailFooter = `<p style="color:#888;font-size:12px;">Choice Properties &middot; This is an automated message, please do not reply.</p>`

// ApplicationConfirmation acknowledges a received rental application.
func ApplicationConfirmation(applicationID string) Email {
	body := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
			<h2 style="color:#2c3e50;">Application Received</h2>
			<p>Thank you for applying with Choice Properties.</p>
			<p>Your application ID is <strong>%s</strong>. Keep it for your records; you will need it to check your application status.</p>
			<p>Our team will review your application and run the standard background check. You will hear from us within 3&ndash;5 business days.</p>
			%s
		</div>`, applicationID, emailFooter)
	return Email{
		Subject:  "Application Received - Choice Properties",
		HTMLBody: body,
	}
}

// ApplicationStatusChange notifies the applicant of a lifecycle change.
func ApplicationStatusChange(status, applicationID, firstName string) Email {
	var headline, detail string
	switch status {
	case "screening":
		headline = "Your Application Is Under Review"
		detail = "Our team has started reviewing your application and running the background check."
	case "approved":
		headline = "Congratulations, Your Application Is Approved!"
		detail = "Our leasing team will contact you shortly to arrange the next steps."
	case "rejected":
		headline = "Update on Your Application"
		detail = "After careful review, we are unable to approve your application at this time."
	default:
		headline = "Update on Your Application"
		detail = fmt.Sprintf("Your application status is now: %s.", status)
	}

	greeting := "Hello,"
	if firstName != "" {
		greeting = fmt.Sprintf("Hello %s,", firstName)
	}

	body := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
			<h2 style="color:#2c3e50;">%s</h2>
			<p>%s</p>
			<p>%s</p>
			<p>Application ID: <strong>%s</strong></p>
			%s
		</div>`, headline, greeting, detail, applicationID, emailFooter)
	return Email{
		Subject:  fmt.Sprintf("Application %s - Choice Properties", applicationID),
		HTMLBody: body,
	}
}

// PaymentConfirmation is the receipt for a completed payment.
func PaymentConfirmation(transactionID string, amountDollars float64) Email {
	body := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
			<h2 style="color:#27ae60;">Payment Successful</h2>
			<p>We have received your payment of <strong>$%.2f</strong>.</p>
			<p>Transaction ID: <strong>%s</strong></p>
			<p>Keep this receipt for your records.</p>
			%s
		</div>`, amountDollars, transactionID, emailFooter)
	return Email{
		Subject:  "Payment Confirmation - Choice Properties",
		HTMLBody: body,
	}
}

// NewsletterWelcome greets a new or reactivated subscriber.
func NewsletterWelcome(siteBaseURL string) Email {
	body := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
			<h2 style="color:#2c3e50;">Welcome to the Choice Properties Newsletter</h2>
			<p>You are subscribed. Expect new listings, market trends and renting tips in your inbox.</p>
			<p>You can update your preferences or unsubscribe at any time from <a href="%s/newsletter/preferences">your preferences page</a>.</p>
			%s
		</div>`, siteBaseURL, emailFooter)
	return Email{
		Subject:  "Welcome to Choice Properties",
		HTMLBody: body,
	}
}
