package providers

type NotifierInterface interface {
	Notify(title, body string)
}

// LogNotifier delivers local notifications into the app log. A desktop or
// push bridge can replace it without touching the services.
type LogNotifier struct {
	logger Logger
}

func (n *LogNotifier) Notify(title, body string) {
	n.logger.Infof(TypeApp, "Notification: %s: %s", title, body)
}

func NewNotifierProvider(logger Logger) NotifierInterface {
	return &LogNotifier{logger: logger}
}
