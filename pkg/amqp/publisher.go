package amqp

// Publisher delivers ledger event notifications to a broker queue.
//
//go:generate mockery -name=Publisher
type Publisher interface {
	Publish(body []byte, contentType string) error
	Close() error
}
