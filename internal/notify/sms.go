package notify

import "log"

// SMSSender delivers a short text message to a mobile number. The real
// transport is an external collaborator; LogSender stands in until one
// is supplied.
type SMSSender interface {
	Send(phoneNumber, message string) error
}

// Dispatch sends fire-and-forget: the call returns immediately and a
// delivery failure is logged, never surfaced or retried.
func Dispatch(s SMSSender, phoneNumber, message string) {
	if s == nil {
		return
	}
	go func() {
		if err := s.Send(phoneNumber, message); err != nil {
			log.Printf("sms to %s: %v", phoneNumber, err)
		}
	}()
}

type LogSender struct{}

func (LogSender) Send(phoneNumber, message string) error {
	log.Printf("SMS to %s: %s", phoneNumber, message)
	return nil
}
