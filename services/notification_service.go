package services

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/gomail.v2"

	"bnb-backend/logger"
	"bnb-backend/models"
)

// Mailer sends one plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through the configured SMTP relay. When SMTP is not
// configured it logs the message and reports success, so local and test
// environments never fail on mail.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailerFromEnv() *SMTPMailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}
	return &SMTPMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     from,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.host == "" || m.username == "" {
		logger.Info("[MOCK EMAIL]", "to", to, "subject", subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type emailTask struct {
	to      string
	subject string
	body    string
}

// Notifier owns the background email queue. Callers hand it messages and move
// on; delivery failures are logged and dropped, never propagated.
type Notifier struct {
	mailer     Mailer
	adminEmail string
	queue      chan emailTask
	wg         sync.WaitGroup
}

func NewNotifier(mailer Mailer, adminEmail string) *Notifier {
	n := &Notifier{
		mailer:     mailer,
		adminEmail: adminEmail,
		queue:      make(chan emailTask, 64),
	}
	n.wg.Add(1)
	go n.worker()
	return n
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for task := range n.queue {
		if err := n.mailer.Send(task.to, task.subject, task.body); err != nil {
			logger.Error("failed to send notification email",
				"to", task.to,
				"subject", task.subject,
				"error", err)
		}
	}
}

func (n *Notifier) enqueue(task emailTask) {
	select {
	case n.queue <- task:
	default:
		logger.Warn("notification queue full, dropping email", "to", task.to)
	}
}

// Close drains the queue and stops the worker.
func (n *Notifier) Close() {
	close(n.queue)
	n.wg.Wait()
}

const dateDisplayLayout = "January 02, 2006"

// BookingConfirmation queues the guest confirmation and, when an admin
// address is configured, a copy for the admin contact.
func (n *Notifier) BookingConfirmation(booking *models.Booking, listing *models.Listing) {
	ref := booking.ReferenceCode()

	guestBody := fmt.Sprintf(`Dear %s,

Your booking request has been received!

Booking Reference: %s
Property: %s
Location: %s - %s
Check-in: %s
Check-out: %s
Nights: %d
Guests: %d
Price per night: KES %s
Total: KES %s

Please allow us a few minutes to confirm your booking. You will receive a
text or call on %s once it is confirmed.

Thank you for booking with us!`,
		booking.GuestName,
		ref,
		listing.Title,
		listing.LocationDisplay(), listing.SpecificLocation,
		booking.CheckIn.Format(dateDisplayLayout),
		booking.CheckOut.Format(dateDisplayLayout),
		booking.Nights(),
		booking.NumberOfGuests,
		listing.PricePerNight.StringFixed(2),
		booking.TotalPrice.StringFixed(2),
		booking.GuestPhone,
	)

	n.enqueue(emailTask{
		to:      booking.GuestEmail,
		subject: fmt.Sprintf("Booking Confirmation - %s (Ref: %s)", listing.Title, ref),
		body:    guestBody,
	})

	if n.adminEmail == "" {
		return
	}

	adminBody := fmt.Sprintf(`New booking received!

Guest: %s
Email: %s
Phone: %s
Property: %s
Booking Ref: %s
Dates: %s to %s
Nights: %d
Guests: %d
Total: KES %s
Price per night: KES %s`,
		booking.GuestName,
		booking.GuestEmail,
		booking.GuestPhone,
		listing.Title,
		ref,
		booking.CheckIn.Format("2006-01-02"),
		booking.CheckOut.Format("2006-01-02"),
		booking.Nights(),
		booking.NumberOfGuests,
		booking.TotalPrice.StringFixed(2),
		listing.PricePerNight.StringFixed(2),
	)

	n.enqueue(emailTask{
		to:      n.adminEmail,
		subject: fmt.Sprintf("New Booking Notification - %s", listing.Title),
		body:    adminBody,
	})
}
